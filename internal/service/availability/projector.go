package availability

import (
	"sort"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Projector пересекает рабочее окно с каталогом слотов и журналом записей
type Projector struct{}

// NewProjector создает проектор слотов
func NewProjector() *Projector {
	return &Projector{}
}

// Query параметры проекции
type Query struct {
	// DurationMinutes длительность выбранной услуги
	DurationMinutes int
	// NotBefore слоты раньше этого времени отбрасываются (пусто - без ограничения)
	NotBefore types.TimeString
}

// FreeSlots возвращает свободное время мастера по возрастанию.
// bookings могут содержать записи других мастеров и отменённые, они игнорируются
func (p *Projector) FreeSlots(
	rules *domain.CalendarRules,
	res domain.Resolution,
	bookings []*domain.Appointment,
	q Query,
) []types.TimeString {
	if !res.Open || q.DurationMinutes <= 0 {
		return []types.TimeString{}
	}

	busy := busyIntervals(res.StaffID, bookings)
	notBefore := -1
	if !q.NotBefore.IsZero() {
		notBefore = q.NotBefore.Minutes()
	}

	result := make([]types.TimeString, 0)
	seen := make(map[int]struct{})
	for _, slot := range rules.ActiveTimeSlots() {
		start := slot.Time.Minutes()
		if start < 0 {
			continue
		}
		if _, dup := seen[start]; dup {
			continue
		}
		seen[start] = struct{}{}

		if start < notBefore {
			continue
		}
		if !res.Window.Contains(slot.Time, q.DurationMinutes) {
			continue
		}
		if overlaps(busy, start, start+q.DurationMinutes) {
			continue
		}
		result = append(result, types.FromMinutes(start))
	}
	return result
}

// FreeSlotsAny объединяет свободное время нескольких мастеров.
// Для каждого времени перечислены мастера по возрастанию ID
func (p *Projector) FreeSlotsAny(
	rules *domain.CalendarRules,
	resolutions []domain.Resolution,
	bookings []*domain.Appointment,
	q Query,
) []domain.StaffSlot {
	byTime := make(map[int][]int64)
	for _, res := range resolutions {
		for _, t := range p.FreeSlots(rules, res, bookings, q) {
			m := t.Minutes()
			byTime[m] = append(byTime[m], res.StaffID)
		}
	}

	times := make([]int, 0, len(byTime))
	for m := range byTime {
		times = append(times, m)
	}
	sort.Ints(times)

	result := make([]domain.StaffSlot, 0, len(times))
	for _, m := range times {
		staff := byTime[m]
		sort.Slice(staff, func(i, j int) bool { return staff[i] < staff[j] })
		result = append(result, domain.StaffSlot{Time: types.FromMinutes(m), StaffIDs: staff})
	}
	return result
}

// IsFree проверяет, что время входит в свободные слоты мастера
func (p *Projector) IsFree(
	rules *domain.CalendarRules,
	res domain.Resolution,
	bookings []*domain.Appointment,
	at types.TimeString,
	q Query,
) bool {
	target := at.Minutes()
	for _, t := range p.FreeSlots(rules, res, bookings, q) {
		if t.Minutes() == target {
			return true
		}
	}
	return false
}

type interval struct {
	start, end int
}

func busyIntervals(staffID int64, bookings []*domain.Appointment) []interval {
	result := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsBooked() || b.StaffID != staffID {
			continue
		}
		start, end := b.Interval()
		if start < 0 {
			continue
		}
		result = append(result, interval{start: start, end: end})
	}
	return result
}

func overlaps(busy []interval, start, end int) bool {
	for _, b := range busy {
		if start < b.end && b.start < end {
			return true
		}
	}
	return false
}
