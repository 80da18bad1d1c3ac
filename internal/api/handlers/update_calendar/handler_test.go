package update_calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) SetClosedDate(ctx context.Context, shopID int64, date time.Time, reason *string) error {
	return m.Called(ctx, shopID, date, reason).Error(0)
}

func (m *mockService) RemoveClosedDate(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockService) SetOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error {
	return m.Called(ctx, shopID, sunday).Error(0)
}

func (m *mockService) RemoveOpenSunday(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockService) AssignSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error {
	return m.Called(ctx, shopID, a).Error(0)
}

func (m *mockService) UnassignSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error {
	return m.Called(ctx, shopID, date, staffID).Error(0)
}

func (m *mockService) SetOpenHoliday(ctx context.Context, shopID int64, date time.Time, name string) error {
	return m.Called(ctx, shopID, date, name).Error(0)
}

func (m *mockService) RemoveOpenHoliday(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockService) CreateFreeDayException(ctx context.Context, shopID int64, req *models.FreeDayExceptionRequest) (*models.FreeDayExceptionResponse, error) {
	args := m.Called(ctx, shopID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreeDayExceptionResponse), args.Error(1)
}

func (m *mockService) DeleteFreeDayException(ctx context.Context, shopID, id int64) error {
	return m.Called(ctx, shopID, id).Error(0)
}

func (m *mockService) SetOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error {
	return m.Called(ctx, shopID, oh).Error(0)
}

func newRequest(method, body string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/shops/1/calendar", strings.NewReader(body))
	if _, ok := vars["shopId"]; !ok {
		vars["shopId"] = "1"
	}
	return mux.SetURLVars(req, vars)
}

var (
	sunday   = time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	goodFri  = time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	someDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func TestPutClosedDate(t *testing.T) {
	svc := new(mockService)
	svc.On("SetClosedDate", mock.Anything, int64(1), someDate, mock.MatchedBy(func(reason *string) bool {
		return reason != nil && *reason == "Inventur"
	})).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutClosedDate(rec,
		newRequest(http.MethodPut, `{"reason":"Inventur"}`, map[string]string{"date": "2026-03-10"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteClosedDate_NotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("RemoveClosedDate", mock.Anything, int64(1), someDate).
		Return(fmt.Errorf("%w: DeleteClosedDate", calendar.ErrNotFound)).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).DeleteClosedDate(rec,
		newRequest(http.MethodDelete, "", map[string]string{"date": "2026-03-10"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutOpenSunday(t *testing.T) {
	svc := new(mockService)
	svc.On("SetOpenSunday", mock.Anything, int64(1), domain.OpenSunday{
		Date:      sunday,
		OpenTime:  types.MustTimeString("10:00"),
		CloseTime: types.MustTimeString("16:00"),
	}).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutOpenSunday(rec,
		newRequest(http.MethodPut, `{"openTime":"10:00","closeTime":"16:00"}`, map[string]string{"date": "2026-12-20"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestPutOpenSunday_NotSunday(t *testing.T) {
	svc := new(mockService)
	svc.On("SetOpenSunday", mock.Anything, int64(1), mock.Anything).
		Return(fmt.Errorf("%w: date is not a Sunday", calendar.ErrInvalidInput)).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutOpenSunday(rec,
		newRequest(http.MethodPut, `{"openTime":"10:00","closeTime":"16:00"}`, map[string]string{"date": "2026-12-21"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutSundayStaff(t *testing.T) {
	svc := new(mockService)
	svc.On("AssignSundayStaff", mock.Anything, int64(1), domain.OpenSundayStaffAssignment{
		Date:      sunday,
		StaffID:   2,
		StartTime: types.MustTimeString("11:00"),
		EndTime:   types.MustTimeString("15:00"),
	}).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutSundayStaff(rec, newRequest(http.MethodPut,
		`{"openTime":"11:00","closeTime":"15:00"}`, map[string]string{"date": "2026-12-20", "staffId": "2"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestPutSundayStaff_UnknownStaff(t *testing.T) {
	svc := new(mockService)
	svc.On("AssignSundayStaff", mock.Anything, int64(1), mock.Anything).
		Return(fmt.Errorf("%w: staff_id=99", calendar.ErrStaffNotFound)).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutSundayStaff(rec, newRequest(http.MethodPut,
		`{"openTime":"11:00","closeTime":"15:00"}`, map[string]string{"date": "2026-12-20", "staffId": "99"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSundayStaff(t *testing.T) {
	svc := new(mockService)
	svc.On("UnassignSundayStaff", mock.Anything, int64(1), sunday, int64(2)).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).DeleteSundayStaff(rec,
		newRequest(http.MethodDelete, "", map[string]string{"date": "2026-12-20", "staffId": "2"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestPutOpenHoliday(t *testing.T) {
	svc := new(mockService)
	svc.On("SetOpenHoliday", mock.Anything, int64(1), goodFri, "").Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PutOpenHoliday(rec,
		newRequest(http.MethodPut, `{}`, map[string]string{"date": "2026-04-03"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteOpenHoliday(t *testing.T) {
	svc := new(mockService)
	svc.On("RemoveOpenHoliday", mock.Anything, int64(1), goodFri).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).DeleteOpenHoliday(rec,
		newRequest(http.MethodDelete, "", map[string]string{"date": "2026-04-03"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPostFreeDayException(t *testing.T) {
	svc := new(mockService)
	replacement := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	svc.On("CreateFreeDayException", mock.Anything, int64(1), mock.MatchedBy(func(req *models.FreeDayExceptionRequest) bool {
		return req.StaffID == 2 &&
			req.Date.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime == types.MustTimeString("09:00") &&
			req.EndTime == types.MustTimeString("13:00") &&
			req.ReplacementDate != nil && req.ReplacementDate.Equal(replacement)
	})).Return(&models.FreeDayExceptionResponse{ID: 5, StaffID: 2, Date: "2026-03-09"}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PostFreeDayException(rec, newRequest(http.MethodPost,
		`{"date":"2026-03-09","startTime":"09:00","endTime":"13:00","replacementDate":"2026-03-12"}`,
		map[string]string{"staffId": "2"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":5`)
	svc.AssertExpectations(t)
}

func TestPostFreeDayException_Conflict(t *testing.T) {
	svc := new(mockService)
	svc.On("CreateFreeDayException", mock.Anything, int64(1), mock.Anything).
		Return(nil, fmt.Errorf("%w: exception exists", calendar.ErrConflict)).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).PostFreeDayException(rec, newRequest(http.MethodPost,
		`{"date":"2026-03-09","startTime":"09:00","endTime":"13:00"}`, map[string]string{"staffId": "2"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteFreeDayException(t *testing.T) {
	svc := new(mockService)
	svc.On("DeleteFreeDayException", mock.Anything, int64(1), int64(5)).Return(nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).DeleteFreeDayException(rec,
		newRequest(http.MethodDelete, "", map[string]string{"exceptionId": "5"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPutOpeningHours(t *testing.T) {
	svc := new(mockService)
	svc.On("SetOpeningHours", mock.Anything, int64(1), domain.OpeningHours{
		DayOfWeek: 6,
		OpenTime:  types.MustTimeString("09:00"),
		CloseTime: types.MustTimeString("14:00"),
	}).Return(nil).Once()
	svc.On("SetOpeningHours", mock.Anything, int64(1), domain.OpeningHours{DayOfWeek: 1, IsClosed: true}).
		Return(nil).Once()

	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.PutOpeningHours(rec, newRequest(http.MethodPut, `{"openTime":"09:00","closeTime":"14:00"}`,
		map[string]string{"dayOfWeek": "6"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.PutOpeningHours(rec, newRequest(http.MethodPut, `{"isClosed":true}`, map[string]string{"dayOfWeek": "1"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.AssertExpectations(t)
}

func TestInvalidPathAndBody(t *testing.T) {
	h := NewHandler(new(mockService), logger.Nop())

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		vars    map[string]string
	}{
		{"bad date", h.PutClosedDate, `{}`, map[string]string{"date": "tomorrow"}},
		{"bad shop", h.DeleteClosedDate, "", map[string]string{"shopId": "x", "date": "2026-03-10"}},
		{"bad window", h.PutOpenSunday, `{"openTime":"10","closeTime":"16:00"}`, map[string]string{"date": "2026-12-20"}},
		{"missing close", h.PutOpenSunday, `{"openTime":"10:00"}`, map[string]string{"date": "2026-12-20"}},
		{"bad staff", h.PutSundayStaff, `{"openTime":"10:00","closeTime":"16:00"}`, map[string]string{"date": "2026-12-20", "staffId": "0"}},
		{"bad day of week", h.PutOpeningHours, `{"isClosed":true}`, map[string]string{"dayOfWeek": "7"}},
		{"open without times", h.PutOpeningHours, `{"isClosed":false}`, map[string]string{"dayOfWeek": "2"}},
		{"bad exception id", h.DeleteFreeDayException, "", map[string]string{"exceptionId": "abc"}},
		{"bad replacement", h.PostFreeDayException, `{"date":"2026-03-09","startTime":"09:00","endTime":"13:00","replacementDate":"soon"}`, map[string]string{"staffId": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, newRequest(http.MethodPut, tt.body, tt.vars))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRespond_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{calendar.ErrShopNotFound, http.StatusNotFound},
		{calendar.ErrUnsupportedRegion, http.StatusServiceUnavailable},
		{calendar.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := new(mockService)
		svc.On("RemoveOpenSunday", mock.Anything, int64(1), sunday).Return(tt.err).Once()

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).DeleteOpenSunday(rec,
			newRequest(http.MethodDelete, "", map[string]string{"date": "2026-12-20"}))

		assert.Equal(t, tt.wantStatus, rec.Code, tt.err.Error())
	}
}
