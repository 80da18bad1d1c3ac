package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
)

// CalendarRepository интерфейс хранилища правил календаря
type CalendarRepository interface {
	GetRegion(ctx context.Context, shopID int64) (string, error)
	StaffExists(ctx context.Context, shopID, staffID int64) error

	UpsertClosedDate(ctx context.Context, shopID int64, cd domain.ClosedDate) error
	DeleteClosedDate(ctx context.Context, shopID int64, date time.Time) error
	UpsertOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error
	DeleteOpenSunday(ctx context.Context, shopID int64, date time.Time) error
	UpsertOpenSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error
	DeleteOpenSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error
	UpsertOpenHoliday(ctx context.Context, shopID int64, oh domain.OpenHoliday) error
	DeleteOpenHoliday(ctx context.Context, shopID int64, date time.Time) error
	CreateFreeDayException(ctx context.Context, ex *domain.FreeDayException) (*domain.FreeDayException, error)
	DeleteFreeDayException(ctx context.Context, shopID, id int64) error
	UpsertOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error
}

// RulesLoader источник снимка правил (для отметки рабочих праздников)
type RulesLoader interface {
	LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error)
}

// RulesInvalidator сбрасывает кэш правил салона. Может быть nil, если кэш выключен
type RulesInvalidator interface {
	Invalidate(ctx context.Context, shopID int64) error
}

// HolidayCalendar календарь государственных праздников
type HolidayCalendar interface {
	Holidays(region string, year int) ([]holidays.Holiday, error)
	IsHoliday(region string, date time.Time) (holidays.Holiday, bool, error)
	Upcoming(region string, from time.Time, limit int) ([]holidays.Holiday, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
