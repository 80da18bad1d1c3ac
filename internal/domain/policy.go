package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingPolicy правила приёма бронирований, общие для списка слотов и записи
type BookingPolicy struct {
	// Location часовой пояс салона
	Location *time.Location
	// DayRollover после этого времени "сегодня" считается завтрашним днём (пусто - без переноса)
	DayRollover types.TimeString
	// AdvanceBookingDays горизонт бронирования в днях (0 - без ограничения)
	AdvanceBookingDays int
	// MinNoticeMinutes минимальный запас времени до записи на сегодня
	MinNoticeMinutes int
}

func (p BookingPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// EffectiveToday текущая дата салона с учётом переноса дня
func (p BookingPolicy) EffectiveToday(now time.Time) time.Time {
	local := now.In(p.location())
	today := types.DateOnly(local)

	if !p.DayRollover.IsZero() {
		minutes := local.Hour()*60 + local.Minute()
		if minutes >= p.DayRollover.Minutes() {
			today = today.AddDate(0, 0, 1)
		}
	}
	return today
}

// CheckDate проверяет, что дата не в прошлом и не за горизонтом бронирования
func (p BookingPolicy) CheckDate(date, now time.Time) error {
	date = types.DateOnly(date)
	today := p.EffectiveToday(now)

	if date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrDateInPast,
			date.Format(DateFormat), today.Format(DateFormat))
	}
	if p.AdvanceBookingDays > 0 {
		last := today.AddDate(0, 0, p.AdvanceBookingDays)
		if date.After(last) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, p.AdvanceBookingDays)
		}
	}
	return nil
}

// NotBefore самое раннее допустимое время записи на дату.
// Пустое значение - ограничения нет (дата не совпадает с текущим днём салона)
func (p BookingPolicy) NotBefore(date, now time.Time) types.TimeString {
	local := now.In(p.location())
	if !types.SameDate(local, date) {
		return ""
	}

	minutes := local.Hour()*60 + local.Minute() + p.MinNoticeMinutes
	if local.Second() > 0 || local.Nanosecond() > 0 {
		minutes++
	}
	if minutes > 24*60 {
		minutes = 24 * 60
	}
	return types.FromMinutes(minutes)
}
