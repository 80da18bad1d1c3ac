package bookings

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// AppointmentRepository интерфейс журнала записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, shopID, id int64) (*domain.Appointment, error)
	ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, shopID, id int64) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учёт отмен
type MetricsRecorder interface {
	ObserveCancellation(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
