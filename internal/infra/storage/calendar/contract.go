package calendar

import (
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
