package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidShopID  = "некорректный ID салона"
	msgInvalidQuery   = "некорректные параметры запроса: нужны serviceId, date (YYYY-MM-DD) и staffId (ID или any)"
	msgInvalidRequest = "некорректный запрос свободного времени"
	msgShopNotFound   = "салон не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD), staffId (ID или any, по умолчанию any)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()
	params := QueryParams{
		ServiceID: query.Get("serviceId"),
		StaffID:   query.Get("staffId"),
		Date:      query.Get("date"),
	}
	if err := handlers.Validate(params); err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	useCaseReq, err := params.ToUseCaseRequest(shopID)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Failed to parse query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidRequest):
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid request: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrIncompleteConfiguration),
			errors.Is(err, getAvailableSlots.ErrUnsupportedRegion):
			h.logger.Error("GET /shops/{id}/available-slots - Calendar misconfigured: shop_id=%d, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /shops/{id}/available-slots - Failed to get slots: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/available-slots - Slots retrieved: shop_id=%d, status=%s, slots_count=%d",
		shopID, result.Status, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
