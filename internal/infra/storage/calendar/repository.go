package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Repository хранилище правил календаря салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LoadRules собирает снимок всех правил расписания салона.
// Если в контексте есть транзакция, чтение выполняется в ней
func (r *Repository) LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error) {
	region, err := r.getRegion(ctx, shopID)
	if err != nil {
		return nil, err
	}

	rules := &domain.CalendarRules{ShopID: shopID, Region: region}

	loaders := []func(context.Context, *domain.CalendarRules) error{
		r.loadTimeSlots,
		r.loadOpeningHours,
		r.loadStaff,
		r.loadStaffWorkingHours,
		r.loadFreeDayExceptions,
		r.loadClosedDates,
		r.loadOpenSundays,
		r.loadOpenSundayStaff,
		r.loadOpenHolidays,
	}
	for _, load := range loaders {
		if err := load(ctx, rules); err != nil {
			return nil, err
		}
	}

	return rules, nil
}

// GetService получает услугу салона
func (r *Repository) GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "shop_id", "name", "duration_minutes", "is_active").
		From("services").
		Where(squirrel.Eq{"id": serviceID, "shop_id": shopID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.ShopID, &s.Name, &s.DurationMinutes, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}
	return &s, nil
}

// GetRegion возвращает регион праздничного календаря салона
func (r *Repository) GetRegion(ctx context.Context, shopID int64) (string, error) {
	return r.getRegion(ctx, shopID)
}

func (r *Repository) getRegion(ctx context.Context, shopID int64) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("region").
		From("shop_settings").
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: getRegion - build select query: %v", ErrBuildQuery, err)
	}

	var region sql.NullString
	err = executor.QueryRowContext(ctx, query, args...).Scan(&region)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrShopNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: getRegion - scan region: %v", ErrScanRow, err)
	}
	return region.String, nil
}

func (r *Repository) loadTimeSlots(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("id", "slot_time", "is_active", "sort_order").
		From("time_slots").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("sort_order ASC", "slot_time ASC")

	return r.query(ctx, "loadTimeSlots", builder, func(rows *sql.Rows) error {
		var s domain.TimeSlotDefinition
		if err := rows.Scan(&s.ID, &s.Time, &s.Active, &s.SortOrder); err != nil {
			return err
		}
		rules.TimeSlots = append(rules.TimeSlots, s)
		return nil
	})
}

func (r *Repository) loadOpeningHours(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("day_of_week", "is_closed", "open_time", "close_time").
		From("opening_hours").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("day_of_week ASC")

	return r.query(ctx, "loadOpeningHours", builder, func(rows *sql.Rows) error {
		var oh domain.OpeningHours
		if err := rows.Scan(&oh.DayOfWeek, &oh.IsClosed, &oh.OpenTime, &oh.CloseTime); err != nil {
			return err
		}
		rules.OpeningHours = append(rules.OpeningHours, oh)
		return nil
	})
}

func (r *Repository) loadStaff(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("id", "name", "free_day", "vacation_days_per_year", "start_date", "is_active").
		From("staff").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("id ASC")

	return r.query(ctx, "loadStaff", builder, func(rows *sql.Rows) error {
		var s domain.StaffMember
		var freeDay sql.NullInt32
		var startDate sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &freeDay, &s.VacationDaysPerYear, &startDate, &s.IsActive); err != nil {
			return err
		}
		if freeDay.Valid {
			d := int(freeDay.Int32)
			s.FreeDay = &d
		}
		if startDate.Valid {
			s.StartDate = types.DateOnly(startDate.Time)
		}
		rules.Staff = append(rules.Staff, s)
		return nil
	})
}

func (r *Repository) loadStaffWorkingHours(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("wh.staff_id", "wh.day_of_week", "wh.start_time", "wh.end_time").
		From("staff_working_hours wh").
		Join("staff s ON s.id = wh.staff_id").
		Where(squirrel.Eq{"s.shop_id": rules.ShopID}).
		OrderBy("wh.staff_id ASC", "wh.day_of_week ASC")

	return r.query(ctx, "loadStaffWorkingHours", builder, func(rows *sql.Rows) error {
		var wh domain.StaffWorkingHours
		if err := rows.Scan(&wh.StaffID, &wh.DayOfWeek, &wh.StartTime, &wh.EndTime); err != nil {
			return err
		}
		rules.StaffWorkingHours = append(rules.StaffWorkingHours, wh)
		return nil
	})
}

func (r *Repository) loadFreeDayExceptions(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("e.id", "e.staff_id", "e.exception_date", "e.start_time", "e.end_time", "e.replacement_date").
		From("free_day_exceptions e").
		Join("staff s ON s.id = e.staff_id").
		Where(squirrel.Eq{"s.shop_id": rules.ShopID}).
		OrderBy("e.exception_date ASC", "e.id ASC")

	return r.query(ctx, "loadFreeDayExceptions", builder, func(rows *sql.Rows) error {
		var ex domain.FreeDayException
		var replacement sql.NullTime
		if err := rows.Scan(&ex.ID, &ex.StaffID, &ex.Date, &ex.StartTime, &ex.EndTime, &replacement); err != nil {
			return err
		}
		ex.Date = types.DateOnly(ex.Date)
		if replacement.Valid {
			d := types.DateOnly(replacement.Time)
			ex.ReplacementDate = &d
		}
		rules.FreeDayExceptions = append(rules.FreeDayExceptions, ex)
		return nil
	})
}

func (r *Repository) loadClosedDates(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("closed_date", "reason").
		From("closed_dates").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("closed_date ASC")

	return r.query(ctx, "loadClosedDates", builder, func(rows *sql.Rows) error {
		var cd domain.ClosedDate
		if err := rows.Scan(&cd.Date, &cd.Reason); err != nil {
			return err
		}
		cd.Date = types.DateOnly(cd.Date)
		rules.ClosedDates = append(rules.ClosedDates, cd)
		return nil
	})
}

func (r *Repository) loadOpenSundays(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("sunday_date", "open_time", "close_time").
		From("open_sundays").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("sunday_date ASC")

	return r.query(ctx, "loadOpenSundays", builder, func(rows *sql.Rows) error {
		var sunday domain.OpenSunday
		if err := rows.Scan(&sunday.Date, &sunday.OpenTime, &sunday.CloseTime); err != nil {
			return err
		}
		sunday.Date = types.DateOnly(sunday.Date)
		rules.OpenSundays = append(rules.OpenSundays, sunday)
		return nil
	})
}

func (r *Repository) loadOpenSundayStaff(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("sunday_date", "staff_id", "start_time", "end_time").
		From("open_sunday_staff").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("sunday_date ASC", "staff_id ASC")

	return r.query(ctx, "loadOpenSundayStaff", builder, func(rows *sql.Rows) error {
		var a domain.OpenSundayStaffAssignment
		if err := rows.Scan(&a.Date, &a.StaffID, &a.StartTime, &a.EndTime); err != nil {
			return err
		}
		a.Date = types.DateOnly(a.Date)
		rules.OpenSundayStaff = append(rules.OpenSundayStaff, a)
		return nil
	})
}

func (r *Repository) loadOpenHolidays(ctx context.Context, rules *domain.CalendarRules) error {
	builder := psqlbuilder.Select("holiday_date", "holiday_name").
		From("open_holidays").
		Where(squirrel.Eq{"shop_id": rules.ShopID}).
		OrderBy("holiday_date ASC")

	return r.query(ctx, "loadOpenHolidays", builder, func(rows *sql.Rows) error {
		var (
			oh   domain.OpenHoliday
			name sql.NullString
		)
		if err := rows.Scan(&oh.Date, &name); err != nil {
			return err
		}
		oh.Date = types.DateOnly(oh.Date)
		oh.HolidayName = name.String
		rules.OpenHolidays = append(rules.OpenHolidays, oh)
		return nil
	})
}

// query выполняет select и вызывает scan для каждой строки
func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder, scan func(rows *sql.Rows) error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return nil
}
