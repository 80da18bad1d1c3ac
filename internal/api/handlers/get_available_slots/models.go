package get_available_slots

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
)

// QueryParams query параметры запроса
type QueryParams struct {
	ServiceID string `validate:"required,numeric"`
	StaffID   string `validate:"omitempty"` // ID мастера или "any"
	Date      string `validate:"required,datetime=2006-01-02"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ShopID          int64           `json:"shopId"`
	ServiceID       int64           `json:"serviceId"`
	StaffID         string          `json:"staffId"` // ID мастера или "any"
	DurationMinutes int             `json:"durationMinutes"`
	Status          string          `json:"status"` // closed | fully_booked | available
	Reason          string          `json:"reason,omitempty"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot свободное время начала записи
type AvailableSlot struct {
	Time     string  `json:"time"`
	StaffIDs []int64 `json:"staffIds,omitempty"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func (p QueryParams) ToUseCaseRequest(shopID int64) (*getAvailableSlots.Request, error) {
	serviceID, err := strconv.ParseInt(p.ServiceID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceId: %w", err)
	}

	date, err := handlers.ParseDate(p.Date)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		ShopID:    shopID,
		ServiceID: serviceID,
		Date:      date,
	}

	if p.StaffID != "" && p.StaffID != domain.AnyStaff {
		staffID, err := strconv.ParseInt(p.StaffID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	staff := domain.AnyStaff
	if resp.StaffID != nil {
		staff = strconv.FormatInt(*resp.StaffID, 10)
	}

	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:     slot.Time.String(),
			StaffIDs: slot.StaffIDs,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ShopID:          resp.ShopID,
		ServiceID:       resp.ServiceID,
		StaffID:         staff,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		Reason:          string(resp.Reason),
		Slots:           slots,
	}
}
