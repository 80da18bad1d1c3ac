package appointment

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var testDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *txmanager.TransactionManager) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.New(db, nil)
	return NewRepository(wrapped), mock, txmanager.NewTransactionManager(wrapped)
}

func appointmentRow(id int64, status domain.AppointmentStatus) []driver.Value {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{id, int64(1), int64(2), int64(3), testDate, "10:00:00", 30, string(status), "Max", nil, "+49 170 000", nil, nil, now, now}
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		ShopID:          1,
		StaffID:         2,
		ServiceID:       3,
		Date:            testDate,
		TimeSlot:        types.MustTimeString("10:00"),
		DurationMinutes: 30,
		Status:          domain.StatusBooked,
		Customer:        domain.Customer{Name: "Max"},
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	created, err := repo.Create(context.Background(), newAppointment())
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), newAppointment())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_OtherErrorKeepsCause(t *testing.T) {
	repo, mock, _ := newMock(t)
	cause := &pq.Error{Code: "40001", Message: "could not serialize access"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).WillReturnError(cause)

	_, err := repo.Create(context.Background(), newAppointment())
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)

	var pqErr *pq.Error
	assert.ErrorAs(t, err, &pqErr)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, shop_id, staff_id")).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(appointmentRow(7, domain.StatusBooked)...))

	a, err := repo.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, types.TimeString("10:00"), a.TimeSlot)
	assert.Equal(t, domain.StatusBooked, a.Status)
	assert.Equal(t, testDate, a.Date)
	assert.Nil(t, a.Customer.Email)
	require.NotNil(t, a.Customer.Phone)
	assert.Equal(t, "+49 170 000", *a.Customer.Phone)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, shop_id, staff_id")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_ListBookedByStaffDate_LocksInTransaction(t *testing.T) {
	repo, mock, tm := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM appointments WHERE .* ORDER BY time_slot ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(appointmentRow(1, domain.StatusBooked)...).
			AddRow(appointmentRow(2, domain.StatusBooked)...))
	mock.ExpectCommit()

	var list []*domain.Appointment
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		list, err = repo.ListBookedByStaffDate(ctx, 2, testDate)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByFilter(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE .* ORDER BY time_slot ASC, staff_id ASC, id ASC$`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(appointmentRow(5, domain.StatusCancelled)...))

	list, err := repo.ListByFilter(context.Background(), domain.AppointmentsFilter{
		ShopID:           1,
		Date:             testDate,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsCancelled())
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments SET status = $1")).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(appointmentRow(9, domain.StatusCancelled)...))

	a, err := repo.Cancel(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, a.Status)
}

func TestRepository_Cancel_NotBooked(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Cancel(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_LockStaffDay(t *testing.T) {
	repo, mock, tm := newMock(t)

	err := repo.LockStaffDay(context.Background(), 2, testDate)
	assert.ErrorIs(t, err, ErrTransactionRequired)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("appointments:2:2026-03-02").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = tm.Do(context.Background(), func(ctx context.Context) error {
		return repo.LockStaffDay(ctx, 2, testDate)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
