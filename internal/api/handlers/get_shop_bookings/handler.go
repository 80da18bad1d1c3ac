package get_shop_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
)

const (
	msgInvalidShopID = "некорректный ID салона"
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/shops/{shopId}/bookings (администратор)
// Query params: date (обязательно), staffId, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/bookings - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(shopID, query.Get("date"), query.Get("staffId"), query.Get("includeCancelled"))
	if err != nil {
		h.logger.Warn("GET /shops/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByDate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /shops/{id}/bookings - Failed to list bookings: shop_id=%d, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/bookings - Bookings retrieved: shop_id=%d, count=%d",
		shopID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
