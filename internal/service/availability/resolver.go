package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Resolver сводит правила календаря салона в рабочее окно мастера на дату
type Resolver struct {
	holidays HolidayCalendar
}

// NewResolver создает резолвер правил
func NewResolver(holidays HolidayCalendar) *Resolver {
	return &Resolver{holidays: holidays}
}

// EffectiveWindow возвращает рабочее окно на дату.
// staffID == nil означает окно салона в целом (без индивидуальных правил мастеров).
//
// Порядок правил:
//  1. закрытая дата
//  2. воскресенье (только рабочее воскресенье с назначением мастера)
//  3. праздник без отметки о работе
//  4. исключения мастера: работа в выходной, выходной, замена выходного, индивидуальные часы
//  5. часы работы салона
func (r *Resolver) EffectiveWindow(rules *domain.CalendarRules, staffID *int64, date time.Time) (domain.Resolution, error) {
	date = types.DateOnly(date)

	if staffID == nil {
		return r.resolveShop(rules, date)
	}

	staff, ok := rules.FindStaff(*staffID)
	if !ok {
		return domain.Resolution{}, fmt.Errorf("%w: id=%d", ErrUnknownStaff, *staffID)
	}
	return r.resolveStaff(rules, staff, date)
}

// EffectiveWindows разрешает правила для каждого активного мастера по возрастанию ID.
// Используется в режиме "любой мастер"
func (r *Resolver) EffectiveWindows(rules *domain.CalendarRules, date time.Time) ([]domain.Resolution, error) {
	date = types.DateOnly(date)

	ids := rules.ActiveStaffIDs()
	result := make([]domain.Resolution, 0, len(ids))
	for _, id := range ids {
		staff, _ := rules.FindStaff(id)
		res, err := r.resolveStaff(rules, staff, date)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func (r *Resolver) resolveShop(rules *domain.CalendarRules, date time.Time) (domain.Resolution, error) {
	if _, ok := rules.ClosedDateOn(date); ok {
		return domain.Closed(0, domain.ReasonClosedDate), nil
	}

	if date.Weekday() == time.Sunday {
		sunday, ok := rules.OpenSundayOn(date)
		if !ok {
			return domain.Closed(0, domain.ReasonSunday), nil
		}
		return opened(0, sunday.OpenTime, sunday.CloseTime, date)
	}

	closed, err := r.closedForHoliday(rules, date)
	if err != nil {
		return domain.Resolution{}, err
	}
	if closed {
		return domain.Closed(0, domain.ReasonHoliday), nil
	}

	return openingHours(rules, 0, date)
}

func (r *Resolver) resolveStaff(rules *domain.CalendarRules, staff *domain.StaffMember, date time.Time) (domain.Resolution, error) {
	if _, ok := rules.ClosedDateOn(date); ok {
		return domain.Closed(staff.ID, domain.ReasonClosedDate), nil
	}

	if !staff.IsActive {
		return domain.Closed(staff.ID, domain.ReasonStaffInactive), nil
	}
	if !staff.StartDate.IsZero() && types.DateOnly(staff.StartDate).After(date) {
		return domain.Closed(staff.ID, domain.ReasonBeforeStartDate), nil
	}

	if date.Weekday() == time.Sunday {
		if _, ok := rules.OpenSundayOn(date); !ok {
			return domain.Closed(staff.ID, domain.ReasonSunday), nil
		}
		assignment, ok := rules.SundayAssignment(staff.ID, date)
		if !ok {
			return domain.Closed(staff.ID, domain.ReasonSundayNotAssigned), nil
		}
		return opened(staff.ID, assignment.StartTime, assignment.EndTime, date)
	}

	closed, err := r.closedForHoliday(rules, date)
	if err != nil {
		return domain.Resolution{}, err
	}
	if closed {
		return domain.Closed(staff.ID, domain.ReasonHoliday), nil
	}

	if ex, ok := rules.FreeDayExceptionOn(staff.ID, date); ok {
		return opened(staff.ID, ex.StartTime, ex.EndTime, date)
	}
	if staff.FreeDay != nil && *staff.FreeDay == int(date.Weekday()) {
		return domain.Closed(staff.ID, domain.ReasonFreeDay), nil
	}
	if rules.IsReplacementDayOff(staff.ID, date) {
		return domain.Closed(staff.ID, domain.ReasonReplacementDayOff), nil
	}
	if wh, ok := rules.WorkingHoursFor(staff.ID, date.Weekday()); ok {
		return opened(staff.ID, wh.StartTime, wh.EndTime, date)
	}

	return openingHours(rules, staff.ID, date)
}

// closedForHoliday праздник региона без записи об открытии
func (r *Resolver) closedForHoliday(rules *domain.CalendarRules, date time.Time) (bool, error) {
	if rules.Region == "" {
		return false, fmt.Errorf("%w: shop=%d has no holiday region", ErrIncompleteConfiguration, rules.ShopID)
	}

	_, isHoliday, err := r.holidays.IsHoliday(rules.Region, date)
	if err != nil {
		if errors.Is(err, holidays.ErrUnsupportedRegion) {
			return false, fmt.Errorf("%w: %v", ErrUnsupportedRegion, err)
		}
		return false, err
	}
	if !isHoliday {
		return false, nil
	}

	_, open := rules.OpenHolidayOn(date)
	return !open, nil
}

func openingHours(rules *domain.CalendarRules, staffID int64, date time.Time) (domain.Resolution, error) {
	oh, ok := rules.OpeningHoursFor(date.Weekday())
	if !ok {
		return domain.Resolution{}, fmt.Errorf("%w: shop=%d has no opening hours for %s",
			ErrIncompleteConfiguration, rules.ShopID, date.Weekday())
	}
	if oh.IsClosed {
		return domain.Closed(staffID, domain.ReasonOpeningHours), nil
	}
	return opened(staffID, oh.OpenTime, oh.CloseTime, date)
}

func opened(staffID int64, start, end types.TimeString, date time.Time) (domain.Resolution, error) {
	if start.Validate() != nil || end.Validate() != nil || start.Minutes() >= end.Minutes() {
		return domain.Resolution{}, fmt.Errorf("%w: invalid window %s-%s on %s",
			ErrIncompleteConfiguration, start, end, date.Format(domain.DateFormat))
	}
	return domain.Opened(staffID, domain.Window{Start: start, End: end}), nil
}
