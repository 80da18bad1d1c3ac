package domain

// Ограничения входных данных
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxAdvanceBookingDays     = 365
	MaxNotesLength            = 500
	MaxCustomerNameLength     = 200
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AnyStaff значение параметра staffId для режима "любой мастер"
const AnyStaff = "any"
