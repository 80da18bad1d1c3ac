package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// AppointmentStatus статус записи в журнале
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	return s == StatusBooked || s == StatusCancelled
}

// Customer контактные данные клиента
type Customer struct {
	Name  string
	Email *string
	Phone *string
}

// Appointment запись клиента к мастеру
// Записи не удаляются, отмена только меняет статус
type Appointment struct {
	ID              int64
	ShopID          int64
	StaffID         int64
	ServiceID       int64
	Date            time.Time
	TimeSlot        types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Customer        Customer
	Notes           *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsBooked запись занимает время мастера
func (a *Appointment) IsBooked() bool {
	return a.Status == StatusBooked
}

// IsCancelled запись отменена
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// Interval возвращает занятый интервал в минутах от полуночи [start, end)
func (a *Appointment) Interval() (start, end int) {
	start = a.TimeSlot.Minutes()
	duration := a.DurationMinutes
	if duration <= 0 {
		duration = 1
	}
	return start, start + duration
}

// AppointmentsFilter фильтр списка записей салона
type AppointmentsFilter struct {
	ShopID           int64
	Date             time.Time
	StaffID          *int64
	IncludeCancelled bool
}
