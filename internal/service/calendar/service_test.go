package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	calendarRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) GetRegion(ctx context.Context, shopID int64) (string, error) {
	args := m.Called(ctx, shopID)
	return args.String(0), args.Error(1)
}

func (m *mockRepo) StaffExists(ctx context.Context, shopID, staffID int64) error {
	return m.Called(ctx, shopID, staffID).Error(0)
}

func (m *mockRepo) UpsertClosedDate(ctx context.Context, shopID int64, cd domain.ClosedDate) error {
	return m.Called(ctx, shopID, cd).Error(0)
}

func (m *mockRepo) DeleteClosedDate(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockRepo) UpsertOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error {
	return m.Called(ctx, shopID, sunday).Error(0)
}

func (m *mockRepo) DeleteOpenSunday(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockRepo) UpsertOpenSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error {
	return m.Called(ctx, shopID, a).Error(0)
}

func (m *mockRepo) DeleteOpenSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error {
	return m.Called(ctx, shopID, date, staffID).Error(0)
}

func (m *mockRepo) UpsertOpenHoliday(ctx context.Context, shopID int64, oh domain.OpenHoliday) error {
	return m.Called(ctx, shopID, oh).Error(0)
}

func (m *mockRepo) DeleteOpenHoliday(ctx context.Context, shopID int64, date time.Time) error {
	return m.Called(ctx, shopID, date).Error(0)
}

func (m *mockRepo) CreateFreeDayException(ctx context.Context, ex *domain.FreeDayException) (*domain.FreeDayException, error) {
	args := m.Called(ctx, ex)
	created, _ := args.Get(0).(*domain.FreeDayException)
	return created, args.Error(1)
}

func (m *mockRepo) DeleteFreeDayException(ctx context.Context, shopID, id int64) error {
	return m.Called(ctx, shopID, id).Error(0)
}

func (m *mockRepo) UpsertOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error {
	return m.Called(ctx, shopID, oh).Error(0)
}

type mockRules struct{ mock.Mock }

func (m *mockRules) LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error) {
	args := m.Called(ctx, shopID)
	rules, _ := args.Get(0).(*domain.CalendarRules)
	return rules, args.Error(1)
}

type mockInvalidator struct{ mock.Mock }

func (m *mockInvalidator) Invalidate(ctx context.Context, shopID int64) error {
	return m.Called(ctx, shopID).Error(0)
}

type fixture struct {
	repo        *mockRepo
	rules       *mockRules
	invalidator *mockInvalidator
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{repo: &mockRepo{}, rules: &mockRules{}, invalidator: &mockInvalidator{}}
	f.svc = NewService(f.repo, f.rules, f.invalidator, holidays.NewCalculator(), logger.Nop())
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.rules.AssertExpectations(t)
	f.invalidator.AssertExpectations(t)
}

var (
	sunday    = time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	monday    = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	goodFri   = time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC)
	ts        = types.MustTimeString
	errDBDown = errors.New("connection refused")
)

func TestSetClosedDate_InvalidatesCache(t *testing.T) {
	f := newFixture()
	reason := ptr.Ptr("Renovation")
	f.repo.On("UpsertClosedDate", mock.Anything, int64(1), domain.ClosedDate{Date: monday, Reason: reason}).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	require.NoError(t, f.svc.SetClosedDate(context.Background(), 1, monday.Add(9*time.Hour), reason))
	f.assertExpectations(t)
}

func TestWrite_InvalidateFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.repo.On("DeleteClosedDate", mock.Anything, int64(1), monday).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(errors.New("redis down")).Once()

	assert.NoError(t, f.svc.RemoveClosedDate(context.Background(), 1, monday))
	f.assertExpectations(t)
}

func TestWrite_RepositoryErrorSkipsInvalidate(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "not found", repoErr: calendarRepo.ErrNotFound, wantErr: ErrNotFound},
		{name: "internal", repoErr: errDBDown, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("DeleteOpenHoliday", mock.Anything, int64(1), goodFri).Return(tt.repoErr).Once()

			err := f.svc.RemoveOpenHoliday(context.Background(), 1, goodFri)
			assert.ErrorIs(t, err, tt.wantErr)
			f.invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		})
	}
}

func TestWrite_NilInvalidator(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockRules{}, nil, holidays.NewCalculator(), logger.Nop())
	repo.On("DeleteFreeDayException", mock.Anything, int64(1), int64(3)).Return(nil).Once()

	assert.NoError(t, svc.DeleteFreeDayException(context.Background(), 1, 3))
	repo.AssertExpectations(t)
}

func TestSetOpenSunday(t *testing.T) {
	f := newFixture()
	f.repo.On("UpsertOpenSunday", mock.Anything, int64(1),
		domain.OpenSunday{Date: sunday, OpenTime: ts("12:00"), CloseTime: ts("16:00")}).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	err := f.svc.SetOpenSunday(context.Background(), 1, domain.OpenSunday{Date: sunday, OpenTime: ts("12:00"), CloseTime: ts("16:00")})
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestSetOpenSunday_Validation(t *testing.T) {
	f := newFixture()

	err := f.svc.SetOpenSunday(context.Background(), 1, domain.OpenSunday{Date: monday, OpenTime: ts("12:00"), CloseTime: ts("16:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.svc.SetOpenSunday(context.Background(), 1, domain.OpenSunday{Date: sunday, OpenTime: ts("16:00"), CloseTime: ts("12:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	f.assertExpectations(t)
}

func TestAssignSundayStaff(t *testing.T) {
	f := newFixture()
	a := domain.OpenSundayStaffAssignment{Date: sunday, StaffID: 2, StartTime: ts("12:00"), EndTime: ts("15:00")}
	f.repo.On("StaffExists", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	f.repo.On("UpsertOpenSundayStaff", mock.Anything, int64(1), a).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	require.NoError(t, f.svc.AssignSundayStaff(context.Background(), 1, a))
	f.assertExpectations(t)
}

func TestAssignSundayStaff_UnknownStaff(t *testing.T) {
	f := newFixture()
	a := domain.OpenSundayStaffAssignment{Date: sunday, StaffID: 9, StartTime: ts("12:00"), EndTime: ts("15:00")}
	f.repo.On("StaffExists", mock.Anything, int64(1), int64(9)).Return(calendarRepo.ErrStaffNotFound).Once()

	assert.ErrorIs(t, f.svc.AssignSundayStaff(context.Background(), 1, a), ErrStaffNotFound)
	f.assertExpectations(t)
}

func TestSetOpenHoliday_UsesCalendarName(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(1)).Return("DE-NW", nil).Once()
	f.repo.On("UpsertOpenHoliday", mock.Anything, int64(1),
		domain.OpenHoliday{Date: goodFri, HolidayName: "Karfreitag"}).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	require.NoError(t, f.svc.SetOpenHoliday(context.Background(), 1, goodFri, ""))
	f.assertExpectations(t)
}

func TestSetOpenHoliday_NotAHoliday(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(1)).Return("DE-NW", nil).Once()

	assert.ErrorIs(t, f.svc.SetOpenHoliday(context.Background(), 1, monday, "Rosenmontag"), ErrInvalidInput)
	f.assertExpectations(t)
}

func TestSetOpenHoliday_UnsupportedRegion(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(1)).Return("AT", nil).Once()

	assert.ErrorIs(t, f.svc.SetOpenHoliday(context.Background(), 1, goodFri, ""), ErrUnsupportedRegion)
	f.assertExpectations(t)
}

func TestCreateFreeDayException(t *testing.T) {
	f := newFixture()
	replacement := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	f.repo.On("StaffExists", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	f.repo.On("CreateFreeDayException", mock.Anything, mock.MatchedBy(func(ex *domain.FreeDayException) bool {
		return ex.StaffID == 2 && ex.Date.Equal(monday) && ex.ReplacementDate != nil && ex.ReplacementDate.Equal(replacement)
	})).Return(&domain.FreeDayException{
		ID: 11, StaffID: 2, Date: monday, StartTime: ts("10:00"), EndTime: ts("14:00"), ReplacementDate: &replacement,
	}, nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	resp, err := f.svc.CreateFreeDayException(context.Background(), 1, &models.FreeDayExceptionRequest{
		StaffID: 2, Date: monday, StartTime: ts("10:00"), EndTime: ts("14:00"), ReplacementDate: &replacement,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	require.NotNil(t, resp.ReplacementDate)
	assert.Equal(t, "2026-03-04", *resp.ReplacementDate)
	f.assertExpectations(t)
}

func TestCreateFreeDayException_Conflict(t *testing.T) {
	f := newFixture()
	f.repo.On("StaffExists", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	f.repo.On("CreateFreeDayException", mock.Anything, mock.Anything).Return(nil, calendarRepo.ErrConflict).Once()

	_, err := f.svc.CreateFreeDayException(context.Background(), 1, &models.FreeDayExceptionRequest{
		StaffID: 2, Date: monday, StartTime: ts("10:00"), EndTime: ts("14:00"),
	})
	assert.ErrorIs(t, err, ErrConflict)
	f.assertExpectations(t)
}

func TestCreateFreeDayException_SameReplacementDate(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateFreeDayException(context.Background(), 1, &models.FreeDayExceptionRequest{
		StaffID: 2, Date: monday, StartTime: ts("10:00"), EndTime: ts("14:00"), ReplacementDate: &monday,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetOpeningHours(t *testing.T) {
	f := newFixture()
	f.repo.On("UpsertOpeningHours", mock.Anything, int64(1), domain.OpeningHours{DayOfWeek: 0, IsClosed: true}).Return(nil).Once()
	f.invalidator.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	err := f.svc.SetOpeningHours(context.Background(), 1, domain.OpeningHours{DayOfWeek: 0, IsClosed: true, OpenTime: ts("10:00")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SetOpeningHours(context.Background(), 1, domain.OpeningHours{DayOfWeek: 7}), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.SetOpeningHours(context.Background(), 1,
		domain.OpeningHours{DayOfWeek: 1, OpenTime: ts("19:00"), CloseTime: ts("10:00")}), ErrInvalidInput)
	f.assertExpectations(t)
}

func TestListHolidays_MarksOpenHolidays(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(1)).Return("DE-NW", nil).Once()
	f.rules.On("LoadRules", mock.Anything, int64(1)).Return(&domain.CalendarRules{
		ShopID:       1,
		Region:       "DE-NW",
		OpenHolidays: []domain.OpenHoliday{{Date: goodFri, HolidayName: "Karfreitag"}},
	}, nil).Once()

	resp, err := f.svc.ListHolidays(context.Background(), 1, 2026)
	require.NoError(t, err)

	assert.Equal(t, "DE-NW", resp.Region)
	require.NotEmpty(t, resp.Holidays)
	assert.Equal(t, "2026-01-01", resp.Holidays[0].Date)

	var open []string
	for _, h := range resp.Holidays {
		if h.IsOpen {
			open = append(open, h.Date)
		}
	}
	assert.Equal(t, []string{"2026-04-03"}, open)
	f.assertExpectations(t)
}

func TestUpcomingHolidays(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(1)).Return("DE-NW", nil).Once()
	f.rules.On("LoadRules", mock.Anything, int64(1)).Return(&domain.CalendarRules{ShopID: 1}, nil).Once()

	resp, err := f.svc.UpcomingHolidays(context.Background(), 1, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)

	require.Len(t, resp.Holidays, 3)
	assert.Equal(t, "2026-12-25", resp.Holidays[0].Date)
	assert.Equal(t, "2026-12-26", resp.Holidays[1].Date)
	assert.Equal(t, "2027-01-01", resp.Holidays[2].Date)
	f.assertExpectations(t)
}

func TestListHolidays_ShopNotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetRegion", mock.Anything, int64(5)).Return("", calendarRepo.ErrShopNotFound).Once()

	_, err := f.svc.ListHolidays(context.Background(), 5, 2026)
	assert.ErrorIs(t, err, ErrShopNotFound)
	f.assertExpectations(t)
}
