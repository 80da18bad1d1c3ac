package create_booking

import (
	"context"
	"encoding/json"
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

	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

const validBody = `{
	"staffId": null,
	"serviceId": 5,
	"date": "2026-03-03",
	"time": "10:00",
	"customer": {"name": "Anna", "email": "anna@example.com"}
}`

func newRequest(shopID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shops/"+shopID+"/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return mux.SetURLVars(req, map[string]string{"shopId": shopID})
}

func TestHandle_Created(t *testing.T) {
	uc := new(mockUseCase)
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.ShopID == 1 &&
			req.StaffID == nil &&
			req.ServiceID == 5 &&
			req.Date.Equal(date) &&
			req.Time == types.MustTimeString("10:00") &&
			req.Customer.Name == "Anna" &&
			req.Customer.Email != nil && *req.Customer.Email == "anna@example.com"
	})).Return(&createBooking.Response{
		ID:              77,
		ShopID:          1,
		StaffID:         2,
		ServiceID:       5,
		Date:            date,
		Time:            types.MustTimeString("10:00"),
		DurationMinutes: 30,
		Status:          "booked",
		Customer:        createBooking.Customer{Name: "Anna", Email: ptr.Ptr("anna@example.com")},
		CreatedAt:       created,
		UpdatedAt:       created,
	}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, newRequest("1", validBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(77), body.ID)
	assert.Equal(t, int64(2), body.StaffID)
	assert.Equal(t, "2026-03-03", body.Date)
	assert.Equal(t, "10:00", body.Time)
	assert.Equal(t, "booked", body.Status)
	uc.AssertExpectations(t)
}

func TestHandle_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown field", `{"serviceId":5,"date":"2026-03-03","time":"10:00","customer":{"name":"A","email":"a@b.de"},"userId":1}`},
		{"missing contact", `{"serviceId":5,"date":"2026-03-03","time":"10:00","customer":{"name":"A"}}`},
		{"bad email", `{"serviceId":5,"date":"2026-03-03","time":"10:00","customer":{"name":"A","email":"nope"}}`},
		{"missing name", `{"serviceId":5,"date":"2026-03-03","time":"10:00","customer":{"phone":"+4930123456"}}`},
		{"bad date", `{"serviceId":5,"date":"03.03.2026","time":"10:00","customer":{"name":"A","phone":"+4930123456"}}`},
		{"bad time", `{"serviceId":5,"date":"2026-03-03","time":"25:99","customer":{"name":"A","phone":"+4930123456"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest("1", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot taken", createBooking.ErrSlotNoLongerAvailable, http.StatusConflict},
		{"invalid request", createBooking.ErrInvalidRequest, http.StatusBadRequest},
		{"not found", createBooking.ErrNotFound, http.StatusNotFound},
		{"incomplete configuration", createBooking.ErrIncompleteConfiguration, http.StatusServiceUnavailable},
		{"unsupported region", createBooking.ErrUnsupportedRegion, http.StatusServiceUnavailable},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("%w: Execute - test", tt.err)).Once()

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest("1", validBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
