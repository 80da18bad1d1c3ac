package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/pgerr"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

const table = "appointments"

var columns = []string{
	"id",
	"shop_id",
	"staff_id",
	"service_id",
	"appointment_date",
	"time_slot",
	"duration_minutes",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository журнал записей.
// Журнал никогда не кэшируется, все чтения идут в БД
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись со статусом booked.
// Нарушение уникального индекса (staff_id, appointment_date, time_slot) возвращает ErrSlotTaken
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"shop_id",
			"staff_id",
			"service_id",
			"appointment_date",
			"time_slot",
			"duration_minutes",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"notes",
		).
		Values(
			a.ShopID,
			a.StaffID,
			a.ServiceID,
			a.Date.Format(types.DateFormat),
			a.TimeSlot,
			a.DurationMinutes,
			a.Status,
			a.Customer.Name,
			a.Customer.Email,
			a.Customer.Phone,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: staff=%d date=%s time=%s",
				ErrSlotTaken, a.StaffID, a.Date.Format(types.DateFormat), a.TimeSlot)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// GetByID получает запись салона по ID.
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, shopID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "shop_id": shopID})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}
	return a, nil
}

// ListBookedByStaffDate возвращает активные записи мастера на дату по возрастанию времени.
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListBookedByStaffDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"staff_id":         staffID,
			"appointment_date": date.Format(types.DateFormat),
			"status":           domain.StatusBooked,
		}).
		OrderBy("time_slot ASC")
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "ListBookedByStaffDate", builder)
}

// ListByFilter возвращает записи салона на дату (для календаря администратора)
func (r *Repository) ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"shop_id":          filter.ShopID,
			"appointment_date": filter.Date.Format(types.DateFormat),
		})

	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if !filter.IncludeCancelled {
		builder = builder.Where(squirrel.Eq{"status": domain.StatusBooked})
	}
	builder = builder.OrderBy("time_slot ASC", "staff_id ASC", "id ASC")

	return r.list(ctx, "ListByFilter", builder)
}

// Cancel переводит запись booked -> cancelled и возвращает обновлённую строку.
// Если запись не найдена или уже отменена, возвращает ErrAppointmentNotFound
func (r *Repository) Cancel(ctx context.Context, shopID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "shop_id": shopID, "status": domain.StatusBooked}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}
	return a, nil
}

// LockStaffDay берёт транзакционную advisory-блокировку на день мастера.
// Конкурентные бронирования одного мастера на одну дату выполняются последовательно
func (r *Repository) LockStaffDay(ctx context.Context, staffID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrTransactionRequired
	}

	key := fmt.Sprintf("appointments:%d:%s", staffID, date.Format(types.DateFormat))
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockStaffDay - %s: %w", ErrExecQuery, key, err)
	}
	return nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ShopID,
		&a.StaffID,
		&a.ServiceID,
		&a.Date,
		&a.TimeSlot,
		&a.DurationMinutes,
		&a.Status,
		&a.Customer.Name,
		&a.Customer.Email,
		&a.Customer.Phone,
		&a.Notes,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date = types.DateOnly(a.Date)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
