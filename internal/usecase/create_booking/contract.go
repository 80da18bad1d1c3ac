package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// AppointmentRepository журнал записей
type AppointmentRepository interface {
	LockStaffDay(ctx context.Context, staffID int64, date time.Time) error
	ListBookedByStaffDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// RulesLoader источник снимка правил календаря.
// Внутри транзакции правила должны читаться из БД, минуя кэш
type RulesLoader interface {
	LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error)
}

// ServiceRepository каталог услуг
type ServiceRepository interface {
	GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учёт попыток бронирования
type MetricsRecorder interface {
	ObserveBooking(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
