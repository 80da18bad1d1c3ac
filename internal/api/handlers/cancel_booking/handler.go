package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
)

const (
	msgInvalidShopID    = "некорректный ID салона"
	msgInvalidBookingID = "некорректный ID записи"
	msgNotFound         = "запись не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/shops/{shopId}/bookings/{bookingId}/cancel
// Повторная отмена возвращает уже отменённую запись
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), shopID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: shop_id=%d, booking_id=%d",
				shopID, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: shop_id=%d, booking_id=%d", shopID, bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
