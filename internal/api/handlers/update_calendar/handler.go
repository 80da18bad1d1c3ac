package update_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar"
)

const (
	msgInvalidShopID      = "некорректный ID салона"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается 0..6"
	msgInvalidExceptionID = "некорректный ID исключения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные календаря"
	msgShopNotFound       = "салон не найден"
	msgStaffNotFound      = "мастер не найден"
	msgRuleNotFound       = "правило не найдено"
	msgConflict           = "правило уже существует"
)

// Handler административные изменения календаря салона.
// Каждое изменение сбрасывает кэш правил салона
type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// PutClosedDate PUT /api/v1/shops/{shopId}/closed-dates/{date}
func (h *Handler) PutClosedDate(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "PUT /closed-dates/{date}")
	if !ok {
		return
	}

	var req ClosedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /closed-dates/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.SetClosedDate(r.Context(), shopID, date, req.Reason)
	h.respond(w, "PUT /closed-dates/{date}", shopID, err)
}

// DeleteClosedDate DELETE /api/v1/shops/{shopId}/closed-dates/{date}
func (h *Handler) DeleteClosedDate(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "DELETE /closed-dates/{date}")
	if !ok {
		return
	}
	err := h.service.RemoveClosedDate(r.Context(), shopID, date)
	h.respond(w, "DELETE /closed-dates/{date}", shopID, err)
}

// PutOpenSunday PUT /api/v1/shops/{shopId}/open-sundays/{date}
func (h *Handler) PutOpenSunday(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "PUT /open-sundays/{date}")
	if !ok {
		return
	}

	var req WindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /open-sundays/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	sunday, err := req.ToOpenSunday(date)
	if err != nil {
		h.logger.Warn("PUT /open-sundays/{date} - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	err = h.service.SetOpenSunday(r.Context(), shopID, sunday)
	h.respond(w, "PUT /open-sundays/{date}", shopID, err)
}

// DeleteOpenSunday DELETE /api/v1/shops/{shopId}/open-sundays/{date}
func (h *Handler) DeleteOpenSunday(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "DELETE /open-sundays/{date}")
	if !ok {
		return
	}
	err := h.service.RemoveOpenSunday(r.Context(), shopID, date)
	h.respond(w, "DELETE /open-sundays/{date}", shopID, err)
}

// PutSundayStaff PUT /api/v1/shops/{shopId}/open-sundays/{date}/staff/{staffId}
func (h *Handler) PutSundayStaff(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /open-sundays/{date}/staff/{staffId}"
	shopID, date, ok := h.shopAndDate(w, r, op)
	if !ok {
		return
	}
	staffID, ok := h.staffID(w, r, op)
	if !ok {
		return
	}

	var req WindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	assignment, err := req.ToAssignment(date, staffID)
	if err != nil {
		h.logger.Warn("%s - Invalid window: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	err = h.service.AssignSundayStaff(r.Context(), shopID, assignment)
	h.respond(w, op, shopID, err)
}

// DeleteSundayStaff DELETE /api/v1/shops/{shopId}/open-sundays/{date}/staff/{staffId}
func (h *Handler) DeleteSundayStaff(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /open-sundays/{date}/staff/{staffId}"
	shopID, date, ok := h.shopAndDate(w, r, op)
	if !ok {
		return
	}
	staffID, ok := h.staffID(w, r, op)
	if !ok {
		return
	}
	err := h.service.UnassignSundayStaff(r.Context(), shopID, date, staffID)
	h.respond(w, op, shopID, err)
}

// PutOpenHoliday PUT /api/v1/shops/{shopId}/open-holidays/{date}
func (h *Handler) PutOpenHoliday(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "PUT /open-holidays/{date}")
	if !ok {
		return
	}

	var req OpenHolidayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /open-holidays/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.SetOpenHoliday(r.Context(), shopID, date, req.Name)
	h.respond(w, "PUT /open-holidays/{date}", shopID, err)
}

// DeleteOpenHoliday DELETE /api/v1/shops/{shopId}/open-holidays/{date}
func (h *Handler) DeleteOpenHoliday(w http.ResponseWriter, r *http.Request) {
	shopID, date, ok := h.shopAndDate(w, r, "DELETE /open-holidays/{date}")
	if !ok {
		return
	}
	err := h.service.RemoveOpenHoliday(r.Context(), shopID, date)
	h.respond(w, "DELETE /open-holidays/{date}", shopID, err)
}

// PostFreeDayException POST /api/v1/shops/{shopId}/staff/{staffId}/free-day-exceptions
func (h *Handler) PostFreeDayException(w http.ResponseWriter, r *http.Request) {
	const op = "POST /staff/{staffId}/free-day-exceptions"
	shopID, ok := h.shopID(w, r, op)
	if !ok {
		return
	}
	staffID, ok := h.staffID(w, r, op)
	if !ok {
		return
	}

	var req FreeDayExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	serviceReq, err := req.ToServiceRequest(staffID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	result, err := h.service.CreateFreeDayException(r.Context(), shopID, serviceReq)
	if err != nil {
		h.respond(w, op, shopID, err)
		return
	}

	h.logger.Info("%s - Exception created: shop_id=%d, staff_id=%d, exception_id=%d", op, shopID, staffID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteFreeDayException DELETE /api/v1/shops/{shopId}/free-day-exceptions/{exceptionId}
func (h *Handler) DeleteFreeDayException(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /free-day-exceptions/{id}"
	shopID, ok := h.shopID(w, r, op)
	if !ok {
		return
	}
	exceptionID, err := handlers.PathInt64(r, "exceptionId")
	if err != nil {
		h.logger.Warn("%s - Invalid exception ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}
	err = h.service.DeleteFreeDayException(r.Context(), shopID, exceptionID)
	h.respond(w, op, shopID, err)
}

// PutOpeningHours PUT /api/v1/shops/{shopId}/opening-hours/{dayOfWeek}
func (h *Handler) PutOpeningHours(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /opening-hours/{dayOfWeek}"
	shopID, ok := h.shopID(w, r, op)
	if !ok {
		return
	}
	dayOfWeek, err := strconv.Atoi(mux.Vars(r)["dayOfWeek"])
	if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
		h.logger.Warn("%s - Invalid day of week: %q", op, mux.Vars(r)["dayOfWeek"])
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	var req OpeningHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	hours, err := req.ToDomain(dayOfWeek)
	if err != nil {
		h.logger.Warn("%s - Invalid window: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	err = h.service.SetOpeningHours(r.Context(), shopID, hours)
	h.respond(w, op, shopID, err)
}

func (h *Handler) shopID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("%s - Invalid shop ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return 0, false
	}
	return shopID, true
}

func (h *Handler) staffID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("%s - Invalid staff ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, false
	}
	return staffID, true
}

func (h *Handler) shopAndDate(w http.ResponseWriter, r *http.Request, op string) (int64, time.Time, bool) {
	shopID, ok := h.shopID(w, r, op)
	if !ok {
		return 0, time.Time{}, false
	}
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return 0, time.Time{}, false
	}
	return shopID, date, true
}

// respond пишет 204 при успехе или переводит ошибку сервиса в HTTP статус
func (h *Handler) respond(w http.ResponseWriter, op string, shopID int64, err error) {
	if err == nil {
		h.logger.Info("%s - Calendar updated: shop_id=%d", op, shopID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch {
	case errors.Is(err, calendar.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: shop_id=%d, error=%v", op, shopID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, calendar.ErrShopNotFound):
		h.logger.Warn("%s - Shop not found: shop_id=%d", op, shopID)
		handlers.RespondNotFound(w, msgShopNotFound)

	case errors.Is(err, calendar.ErrStaffNotFound):
		h.logger.Warn("%s - Staff not found: shop_id=%d, error=%v", op, shopID, err)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, calendar.ErrNotFound):
		h.logger.Warn("%s - Rule not found: shop_id=%d", op, shopID)
		handlers.RespondNotFound(w, msgRuleNotFound)

	case errors.Is(err, calendar.ErrConflict):
		h.logger.Warn("%s - Conflict: shop_id=%d, error=%v", op, shopID, err)
		handlers.RespondConflict(w, msgConflict)

	case errors.Is(err, calendar.ErrUnsupportedRegion):
		h.logger.Error("%s - Unsupported region: shop_id=%d, error=%v", op, shopID, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Failed to update calendar: shop_id=%d, error=%v", op, shopID, err)
		handlers.RespondInternalError(w)
	}
}
