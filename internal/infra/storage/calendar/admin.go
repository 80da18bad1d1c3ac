package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/pgerr"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// StaffExists проверяет, что мастер принадлежит салону
func (r *Repository) StaffExists(ctx context.Context, shopID, staffID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("staff").
		Where(squirrel.Eq{"id": staffID, "shop_id": shopID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: StaffExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStaffNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: StaffExists - scan: %v", ErrScanRow, err)
	}
	return nil
}

// UpsertClosedDate закрывает салон на дату
func (r *Repository) UpsertClosedDate(ctx context.Context, shopID int64, cd domain.ClosedDate) error {
	query, args, err := psqlbuilder.Insert("closed_dates").
		Columns("shop_id", "closed_date", "reason").
		Values(shopID, cd.Date.Format(types.DateFormat), cd.Reason).
		Suffix("ON CONFLICT (shop_id, closed_date) DO UPDATE SET reason = EXCLUDED.reason").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertClosedDate - build insert query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "UpsertClosedDate", query, args, false)
}

// DeleteClosedDate снимает закрытие салона на дату
func (r *Repository) DeleteClosedDate(ctx context.Context, shopID int64, date time.Time) error {
	return r.deleteWhere(ctx, "DeleteClosedDate", "closed_dates",
		squirrel.Eq{"shop_id": shopID, "closed_date": date.Format(types.DateFormat)})
}

// UpsertOpenSunday объявляет воскресенье рабочим
func (r *Repository) UpsertOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error {
	query, args, err := psqlbuilder.Insert("open_sundays").
		Columns("shop_id", "sunday_date", "open_time", "close_time").
		Values(shopID, sunday.Date.Format(types.DateFormat), sunday.OpenTime, sunday.CloseTime).
		Suffix("ON CONFLICT (shop_id, sunday_date) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOpenSunday - build insert query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "UpsertOpenSunday", query, args, false)
}

// DeleteOpenSunday отменяет рабочее воскресенье.
// Назначения мастеров остаются и не действуют без рабочего воскресенья
func (r *Repository) DeleteOpenSunday(ctx context.Context, shopID int64, date time.Time) error {
	return r.deleteWhere(ctx, "DeleteOpenSunday", "open_sundays",
		squirrel.Eq{"shop_id": shopID, "sunday_date": date.Format(types.DateFormat)})
}

// UpsertOpenSundayStaff назначает мастера на рабочее воскресенье
func (r *Repository) UpsertOpenSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error {
	query, args, err := psqlbuilder.Insert("open_sunday_staff").
		Columns("shop_id", "sunday_date", "staff_id", "start_time", "end_time").
		Values(shopID, a.Date.Format(types.DateFormat), a.StaffID, a.StartTime, a.EndTime).
		Suffix("ON CONFLICT (shop_id, sunday_date, staff_id) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOpenSundayStaff - build insert query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "UpsertOpenSundayStaff", query, args, false)
}

// DeleteOpenSundayStaff снимает мастера с рабочего воскресенья
func (r *Repository) DeleteOpenSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error {
	return r.deleteWhere(ctx, "DeleteOpenSundayStaff", "open_sunday_staff",
		squirrel.Eq{"shop_id": shopID, "sunday_date": date.Format(types.DateFormat), "staff_id": staffID})
}

// UpsertOpenHoliday объявляет праздник рабочим днём
func (r *Repository) UpsertOpenHoliday(ctx context.Context, shopID int64, oh domain.OpenHoliday) error {
	query, args, err := psqlbuilder.Insert("open_holidays").
		Columns("shop_id", "holiday_date", "holiday_name").
		Values(shopID, oh.Date.Format(types.DateFormat), oh.HolidayName).
		Suffix("ON CONFLICT (shop_id, holiday_date) DO UPDATE SET holiday_name = EXCLUDED.holiday_name").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOpenHoliday - build insert query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "UpsertOpenHoliday", query, args, false)
}

// DeleteOpenHoliday возвращает празднику статус выходного
func (r *Repository) DeleteOpenHoliday(ctx context.Context, shopID int64, date time.Time) error {
	return r.deleteWhere(ctx, "DeleteOpenHoliday", "open_holidays",
		squirrel.Eq{"shop_id": shopID, "holiday_date": date.Format(types.DateFormat)})
}

// CreateFreeDayException добавляет работу мастера в выходной.
// Второе исключение на ту же дату возвращает ErrConflict
func (r *Repository) CreateFreeDayException(ctx context.Context, ex *domain.FreeDayException) (*domain.FreeDayException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var replacement interface{}
	if ex.ReplacementDate != nil {
		replacement = ex.ReplacementDate.Format(types.DateFormat)
	}

	query, args, err := psqlbuilder.Insert("free_day_exceptions").
		Columns("staff_id", "exception_date", "start_time", "end_time", "replacement_date").
		Values(ex.StaffID, ex.Date.Format(types.DateFormat), ex.StartTime, ex.EndTime, replacement).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateFreeDayException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&ex.ID); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: free day exception staff=%d date=%s",
				ErrConflict, ex.StaffID, ex.Date.Format(types.DateFormat))
		}
		return nil, fmt.Errorf("%w: CreateFreeDayException - execute insert: %v", ErrExecQuery, err)
	}
	return ex, nil
}

// DeleteFreeDayException удаляет исключение мастера салона
func (r *Repository) DeleteFreeDayException(ctx context.Context, shopID, id int64) error {
	query, args, err := psqlbuilder.Delete("free_day_exceptions").
		Where(squirrel.Eq{"id": id}).
		Where("staff_id IN (SELECT id FROM staff WHERE shop_id = ?)", shopID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteFreeDayException - build delete query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "DeleteFreeDayException", query, args, true)
}

// UpsertOpeningHours задает часы работы салона на день недели
func (r *Repository) UpsertOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error {
	query, args, err := psqlbuilder.Insert("opening_hours").
		Columns("shop_id", "day_of_week", "is_closed", "open_time", "close_time").
		Values(shopID, oh.DayOfWeek, oh.IsClosed, oh.OpenTime, oh.CloseTime).
		Suffix("ON CONFLICT (shop_id, day_of_week) DO UPDATE SET is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOpeningHours - build insert query: %v", ErrBuildQuery, err)
	}
	return r.exec(ctx, "UpsertOpeningHours", query, args, false)
}

func (r *Repository) deleteWhere(ctx context.Context, op, table string, where squirrel.Eq) error {
	query, args, err := psqlbuilder.Delete(table).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}
	return r.exec(ctx, op, query, args, true)
}

// exec выполняет запрос; mustAffect - вернуть ErrNotFound, если ни одна строка не изменена
func (r *Repository) exec(ctx context.Context, op, query string, args []interface{}, mustAffect bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}
	if !mustAffect {
		return nil
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
