package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// RulesLoader источник снимка правил календаря (кэш или репозиторий)
type RulesLoader interface {
	LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error)
}

// ServiceRepository каталог услуг
type ServiceRepository interface {
	GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error)
}

// AppointmentRepository журнал записей
type AppointmentRepository interface {
	ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// MetricsRecorder учёт запросов доступности
type MetricsRecorder interface {
	ObserveAvailability(status string)
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
