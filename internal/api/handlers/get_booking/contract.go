package get_booking

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, shopID, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
