package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ListByDateRequest запрос записей салона на дату (календарь администратора)
type ListByDateRequest struct {
	ShopID           int64
	Date             time.Time
	StaffID          *int64
	IncludeCancelled bool
}

// CustomerResponse контакты клиента
type CustomerResponse struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64            `json:"id"`
	ShopID          int64            `json:"shopId"`
	StaffID         int64            `json:"staffId"`
	ServiceID       int64            `json:"serviceId"`
	Date            string           `json:"date"` // "2026-03-02"
	Time            string           `json:"time"` // "10:00"
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	Customer        CustomerResponse `json:"customer"`
	Notes           *string          `json:"notes,omitempty"`
	CancelledAt     *string          `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		ShopID:          a.ShopID,
		StaffID:         a.StaffID,
		ServiceID:       a.ServiceID,
		Date:            a.Date.Format(domain.DateFormat),
		Time:            a.TimeSlot.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Customer: CustomerResponse{
			Name:  a.Customer.Name,
			Email: a.Customer.Email,
			Phone: a.Customer.Phone,
		},
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}
