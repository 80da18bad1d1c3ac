package get_shop_bookings

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListByDate(ctx context.Context, req *models.ListByDateRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
