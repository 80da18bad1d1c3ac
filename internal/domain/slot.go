package domain

import "github.com/m04kA/SMC-BarberBooking/pkg/types"

// ClosureReason причина, по которой день закрыт для мастера
type ClosureReason string

const (
	ReasonNone              ClosureReason = ""
	ReasonClosedDate        ClosureReason = "closed_date"
	ReasonSunday            ClosureReason = "sunday"
	ReasonSundayNotAssigned ClosureReason = "sunday_not_assigned"
	ReasonHoliday           ClosureReason = "holiday"
	ReasonFreeDay           ClosureReason = "free_day"
	ReasonReplacementDayOff ClosureReason = "replacement_day_off"
	ReasonOpeningHours      ClosureReason = "opening_hours"
	ReasonBeforeStartDate   ClosureReason = "before_start_date"
	ReasonStaffInactive     ClosureReason = "staff_inactive"
)

// Window рабочее окно [Start, End)
type Window struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains проверяет, что интервал [start, start+duration) помещается в окно
func (w Window) Contains(start types.TimeString, durationMinutes int) bool {
	s := start.Minutes()
	return s >= w.Start.Minutes() && s+durationMinutes <= w.End.Minutes()
}

// Resolution итог разрешения правил для мастера на дату
type Resolution struct {
	StaffID int64
	Open    bool
	Window  Window
	Reason  ClosureReason
}

// Closed закрытый день с причиной
func Closed(staffID int64, reason ClosureReason) Resolution {
	return Resolution{StaffID: staffID, Reason: reason}
}

// Opened открытый день с окном
func Opened(staffID int64, window Window) Resolution {
	return Resolution{StaffID: staffID, Open: true, Window: window}
}

// StaffSlot свободное время в режиме "любой мастер"
type StaffSlot struct {
	Time     types.TimeString
	StaffIDs []int64
}

// AvailabilityStatus итоговый статус дня для виджета
type AvailabilityStatus string

const (
	AvailabilityClosed      AvailabilityStatus = "closed"
	AvailabilityFullyBooked AvailabilityStatus = "fully_booked"
	AvailabilityAvailable   AvailabilityStatus = "available"
)
