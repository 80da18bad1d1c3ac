package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StaffID   *int64          `json:"staffId" validate:"omitempty,gt=0"` // null - любой свободный мастер
	ServiceID int64           `json:"serviceId" validate:"required,gt=0"`
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string          `json:"time" validate:"required"`
	Customer  CustomerRequest `json:"customer"`
	Notes     *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CustomerRequest контакты клиента
type CustomerRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"required_without=Email,omitempty,min=5,max=32"`
}

// CustomerResponse контакты клиента
type CustomerResponse struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64            `json:"id"`
	ShopID          int64            `json:"shopId"`
	StaffID         int64            `json:"staffId"`
	ServiceID       int64            `json:"serviceId"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	Customer        CustomerResponse `json:"customer"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(shopID int64) (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	at, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ShopID:    shopID,
		StaffID:   r.StaffID,
		ServiceID: r.ServiceID,
		Date:      date,
		Time:      at,
		Customer: createBooking.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Notes: r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ShopID:          resp.ShopID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.Time.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Customer: CustomerResponse{
			Name:  resp.Customer.Name,
			Email: resp.Customer.Email,
			Phone: resp.Customer.Phone,
		},
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
