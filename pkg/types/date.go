package types

import "time"

// DateFormat формат календарной даты YYYY-MM-DD
const DateFormat = "2006-01-02"

// DateOnly обнуляет время, оставляя календарную дату в UTC
// Все даты расписания хранятся и сравниваются как даты без часового пояса
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// SameDate проверяет, что две даты относятся к одному календарному дню
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
