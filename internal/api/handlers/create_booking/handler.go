package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
)

const (
	msgInvalidShopID      = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidRequest     = "запись на выбранное время невозможна"
	msgSlotNoLongerFree   = "выбранное время уже занято"
	msgShopNotFound       = "салон не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/shops/{shopId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("POST /shops/{id}/bookings - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(shopID)
	if err != nil {
		h.logger.Warn("POST /shops/{id}/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /shops/{id}/bookings - Slot no longer available: shop_id=%d, date=%s, time=%s",
				shopID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNoLongerFree)

		case errors.Is(err, createBooking.ErrInvalidRequest):
			h.logger.Warn("POST /shops/{id}/bookings - Invalid request: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createBooking.ErrNotFound):
			h.logger.Warn("POST /shops/{id}/bookings - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, createBooking.ErrIncompleteConfiguration),
			errors.Is(err, createBooking.ErrUnsupportedRegion):
			h.logger.Error("POST /shops/{id}/bookings - Calendar misconfigured: shop_id=%d, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /shops/{id}/bookings - Failed to create booking: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops/{id}/bookings - Booking created: booking_id=%d, shop_id=%d, staff_id=%d",
		result.ID, shopID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
