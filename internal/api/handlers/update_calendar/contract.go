package update_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
)

type CalendarService interface {
	SetClosedDate(ctx context.Context, shopID int64, date time.Time, reason *string) error
	RemoveClosedDate(ctx context.Context, shopID int64, date time.Time) error
	SetOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error
	RemoveOpenSunday(ctx context.Context, shopID int64, date time.Time) error
	AssignSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error
	UnassignSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error
	SetOpenHoliday(ctx context.Context, shopID int64, date time.Time, name string) error
	RemoveOpenHoliday(ctx context.Context, shopID int64, date time.Time) error
	CreateFreeDayException(ctx context.Context, shopID int64, req *models.FreeDayExceptionRequest) (*models.FreeDayExceptionResponse, error)
	DeleteFreeDayException(ctx context.Context, shopID, id int64) error
	SetOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
