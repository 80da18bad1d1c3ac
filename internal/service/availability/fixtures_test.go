package availability

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	monday     = day(2026, time.March, 2)
	tuesday    = day(2026, time.March, 3)
	sunday     = day(2026, time.March, 8)
	easterMon  = day(2026, time.April, 6)
	staffAnna  = int64(1)
	staffBoris = int64(2)
	staffOleg  = int64(3)
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}

// baseRules салон в NRW: пн-сб 10:00-19:00, воскресенье закрыто, слоты каждые 30 минут
func baseRules() *domain.CalendarRules {
	rules := &domain.CalendarRules{
		ShopID: 1,
		Region: "DE-NW",
		Staff: []domain.StaffMember{
			{ID: staffBoris, Name: "Boris", FreeDay: ptr.Ptr(1), StartDate: day(2020, time.January, 1), IsActive: true},
			{ID: staffAnna, Name: "Anna", StartDate: day(2020, time.January, 1), IsActive: true},
			{ID: staffOleg, Name: "Oleg", StartDate: day(2020, time.January, 1), IsActive: false},
		},
	}

	for d := 0; d < 7; d++ {
		oh := domain.OpeningHours{DayOfWeek: d, OpenTime: ts("10:00"), CloseTime: ts("19:00")}
		if d == int(time.Sunday) {
			oh = domain.OpeningHours{DayOfWeek: d, IsClosed: true}
		}
		rules.OpeningHours = append(rules.OpeningHours, oh)
	}

	order := 0
	for m := 9 * 60; m < 20*60; m += 30 {
		order++
		rules.TimeSlots = append(rules.TimeSlots, domain.TimeSlotDefinition{
			ID:        int64(order),
			Time:      types.FromMinutes(m),
			Active:    true,
			SortOrder: order,
		})
	}
	return rules
}

func newResolver() *Resolver {
	return NewResolver(holidays.NewCalculator())
}

func booked(staffID int64, at string, duration int) *domain.Appointment {
	return &domain.Appointment{
		StaffID:         staffID,
		Date:            monday,
		TimeSlot:        ts(at),
		DurationMinutes: duration,
		Status:          domain.StatusBooked,
	}
}
