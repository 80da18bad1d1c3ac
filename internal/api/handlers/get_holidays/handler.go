package get_holidays

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
)

const (
	msgInvalidShopID = "некорректный ID салона"
	msgInvalidParams = "некорректные параметры запроса"
	msgShopNotFound  = "салон не найден"
)

type Handler struct {
	service      CalendarService
	logger       Logger
	timeProvider TimeProvider
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		timeProvider: RealTimeProvider{},
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (h *Handler) WithTimeProvider(tp TimeProvider) *Handler {
	h.timeProvider = tp
	return h
}

// Handle GET /api/v1/shops/{shopId}/holidays
// Query params: year или from, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/holidays - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()
	params, err := ParseQueryParams(query.Get("year"), query.Get("from"), query.Get("limit"))
	if err != nil {
		h.logger.Warn("GET /shops/{id}/holidays - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	var result *models.HolidayListResponse
	if params.Year != nil {
		result, err = h.service.ListHolidays(r.Context(), shopID, *params.Year)
	} else {
		from := h.timeProvider.Now()
		if params.From != nil {
			from = *params.From
		}
		result, err = h.service.UpcomingHolidays(r.Context(), shopID, from, params.Limit)
	}
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/holidays - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, calendar.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/holidays - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, calendar.ErrUnsupportedRegion):
			h.logger.Error("GET /shops/{id}/holidays - Unsupported region: shop_id=%d, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /shops/{id}/holidays - Failed to list holidays: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/holidays - Holidays retrieved: shop_id=%d, region=%s, count=%d",
		shopID, result.Region, len(result.Holidays))
	handlers.RespondJSON(w, http.StatusOK, result)
}

