package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// TimeSlotDefinition элемент общего каталога времени начала записи
type TimeSlotDefinition struct {
	ID        int64            `json:"id"`
	Time      types.TimeString `json:"time"`
	Active    bool             `json:"active"`
	SortOrder int              `json:"sortOrder"`
}

// OpeningHours часы работы салона по дню недели (0 = воскресенье)
type OpeningHours struct {
	DayOfWeek int              `json:"dayOfWeek"`
	IsClosed  bool             `json:"isClosed"`
	OpenTime  types.TimeString `json:"openTime"`
	CloseTime types.TimeString `json:"closeTime"`
}

// StaffMember мастер
type StaffMember struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	FreeDay             *int      `json:"freeDay,omitempty"`
	VacationDaysPerYear int       `json:"vacationDaysPerYear"`
	StartDate           time.Time `json:"startDate"`
	IsActive            bool      `json:"isActive"`
}

// StaffWorkingHours индивидуальные часы мастера по дню недели
type StaffWorkingHours struct {
	StaffID   int64            `json:"staffId"`
	DayOfWeek int              `json:"dayOfWeek"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// FreeDayException работа мастера в его выходной.
// ReplacementDate, если задана, становится выходным вместо него
type FreeDayException struct {
	ID              int64            `json:"id"`
	StaffID         int64            `json:"staffId"`
	Date            time.Time        `json:"date"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	ReplacementDate *time.Time       `json:"replacementDate,omitempty"`
}

// ClosedDate салон закрыт весь день
type ClosedDate struct {
	Date   time.Time `json:"date"`
	Reason *string   `json:"reason,omitempty"`
}

// OpenSunday воскресенье, в которое салон работает
type OpenSunday struct {
	Date      time.Time        `json:"date"`
	OpenTime  types.TimeString `json:"openTime"`
	CloseTime types.TimeString `json:"closeTime"`
}

// OpenSundayStaffAssignment мастер, назначенный на рабочее воскресенье
type OpenSundayStaffAssignment struct {
	Date      time.Time        `json:"date"`
	StaffID   int64            `json:"staffId"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// OpenHoliday праздник, в который салон работает
type OpenHoliday struct {
	Date        time.Time `json:"date"`
	HolidayName string    `json:"holidayName"`
}

// Service услуга салона, задает длительность записи
type Service struct {
	ID              int64  `json:"id"`
	ShopID          int64  `json:"shopId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	IsActive        bool   `json:"isActive"`
}

// CalendarRules снимок всех правил расписания одного салона.
// Резолвер и проектор работают только с этим снимком
type CalendarRules struct {
	ShopID            int64                       `json:"shopId"`
	Region            string                      `json:"region"`
	TimeSlots         []TimeSlotDefinition        `json:"timeSlots"`
	OpeningHours      []OpeningHours              `json:"openingHours"`
	Staff             []StaffMember               `json:"staff"`
	StaffWorkingHours []StaffWorkingHours         `json:"staffWorkingHours"`
	FreeDayExceptions []FreeDayException          `json:"freeDayExceptions"`
	ClosedDates       []ClosedDate                `json:"closedDates"`
	OpenSundays       []OpenSunday                `json:"openSundays"`
	OpenSundayStaff   []OpenSundayStaffAssignment `json:"openSundayStaff"`
	OpenHolidays      []OpenHoliday               `json:"openHolidays"`
}

// FindStaff ищет мастера по ID
func (r *CalendarRules) FindStaff(staffID int64) (*StaffMember, bool) {
	for i := range r.Staff {
		if r.Staff[i].ID == staffID {
			return &r.Staff[i], true
		}
	}
	return nil, false
}

// ActiveStaffIDs ID активных мастеров по возрастанию
func (r *CalendarRules) ActiveStaffIDs() []int64 {
	ids := make([]int64, 0, len(r.Staff))
	for _, s := range r.Staff {
		if s.IsActive {
			ids = append(ids, s.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OpeningHoursFor часы работы салона на день недели
func (r *CalendarRules) OpeningHoursFor(weekday time.Weekday) (*OpeningHours, bool) {
	for i := range r.OpeningHours {
		if r.OpeningHours[i].DayOfWeek == int(weekday) {
			return &r.OpeningHours[i], true
		}
	}
	return nil, false
}

// WorkingHoursFor индивидуальные часы мастера на день недели
func (r *CalendarRules) WorkingHoursFor(staffID int64, weekday time.Weekday) (*StaffWorkingHours, bool) {
	for i := range r.StaffWorkingHours {
		wh := &r.StaffWorkingHours[i]
		if wh.StaffID == staffID && wh.DayOfWeek == int(weekday) {
			return wh, true
		}
	}
	return nil, false
}

// FreeDayExceptionOn исключение мастера на дату
func (r *CalendarRules) FreeDayExceptionOn(staffID int64, date time.Time) (*FreeDayException, bool) {
	for i := range r.FreeDayExceptions {
		ex := &r.FreeDayExceptions[i]
		if ex.StaffID == staffID && types.SameDate(ex.Date, date) {
			return ex, true
		}
	}
	return nil, false
}

// IsReplacementDayOff дата указана как замена выходного в каком-либо исключении мастера
func (r *CalendarRules) IsReplacementDayOff(staffID int64, date time.Time) bool {
	for _, ex := range r.FreeDayExceptions {
		if ex.StaffID == staffID && ex.ReplacementDate != nil && types.SameDate(*ex.ReplacementDate, date) {
			return true
		}
	}
	return false
}

// ClosedDateOn закрытие салона на дату
func (r *CalendarRules) ClosedDateOn(date time.Time) (*ClosedDate, bool) {
	for i := range r.ClosedDates {
		if types.SameDate(r.ClosedDates[i].Date, date) {
			return &r.ClosedDates[i], true
		}
	}
	return nil, false
}

// OpenSundayOn рабочее воскресенье на дату
func (r *CalendarRules) OpenSundayOn(date time.Time) (*OpenSunday, bool) {
	for i := range r.OpenSundays {
		if types.SameDate(r.OpenSundays[i].Date, date) {
			return &r.OpenSundays[i], true
		}
	}
	return nil, false
}

// SundayAssignment назначение мастера на рабочее воскресенье
func (r *CalendarRules) SundayAssignment(staffID int64, date time.Time) (*OpenSundayStaffAssignment, bool) {
	for i := range r.OpenSundayStaff {
		a := &r.OpenSundayStaff[i]
		if a.StaffID == staffID && types.SameDate(a.Date, date) {
			return a, true
		}
	}
	return nil, false
}

// OpenHolidayOn праздник, объявленный рабочим
func (r *CalendarRules) OpenHolidayOn(date time.Time) (*OpenHoliday, bool) {
	for i := range r.OpenHolidays {
		if types.SameDate(r.OpenHolidays[i].Date, date) {
			return &r.OpenHolidays[i], true
		}
	}
	return nil, false
}

// ActiveTimeSlots активные слоты каталога по возрастанию времени
func (r *CalendarRules) ActiveTimeSlots() []TimeSlotDefinition {
	slots := make([]TimeSlotDefinition, 0, len(r.TimeSlots))
	for _, s := range r.TimeSlots {
		if s.Active {
			slots = append(slots, s)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		mi, mj := slots[i].Time.Minutes(), slots[j].Time.Minutes()
		if mi != mj {
			return mi < mj
		}
		return slots[i].SortOrder < slots[j].SortOrder
	})
	return slots
}
