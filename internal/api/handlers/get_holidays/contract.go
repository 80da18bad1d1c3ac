package get_holidays

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
)

type CalendarService interface {
	ListHolidays(ctx context.Context, shopID int64, year int) (*models.HolidayListResponse, error)
	UpcomingHolidays(ctx context.Context, shopID int64, from time.Time, limit int) (*models.HolidayListResponse, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальное время
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
