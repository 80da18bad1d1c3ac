package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса свободного времени
type Request struct {
	ShopID    int64     // ID салона
	ServiceID int64     // ID услуги (определяет длительность)
	StaffID   *int64    // ID мастера, nil - любой мастер
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со свободным временем
type Response struct {
	Date            time.Time
	ShopID          int64
	ServiceID       int64
	StaffID         *int64
	DurationMinutes int
	Status          domain.AvailabilityStatus
	Reason          domain.ClosureReason // Причина закрытия, если Status = closed
	Slots           []Slot
}

// Slot свободное время. StaffIDs заполнен только в режиме "любой мастер"
type Slot struct {
	Time     types.TimeString
	StaffIDs []int64
}
