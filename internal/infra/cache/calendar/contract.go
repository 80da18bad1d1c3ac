package calendar

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// RulesSource авторитетный источник правил (репозиторий postgres)
type RulesSource interface {
	LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error)
}

// MetricsRecorder учёт попаданий в кэш
type MetricsRecorder interface {
	ObserveRulesCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
