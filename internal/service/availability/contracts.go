package availability

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
)

// HolidayCalendar источник государственных праздников
type HolidayCalendar interface {
	IsHoliday(region string, date time.Time) (holidays.Holiday, bool, error)
}
