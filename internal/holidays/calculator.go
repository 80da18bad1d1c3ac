package holidays

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

const (
	minYear = 1900
	maxYear = 2200
)

// Holiday государственный праздник
type Holiday struct {
	Date time.Time
	Name string
}

// regions календари праздников Германии: федеральный и по землям
var regions = map[string][]*cal.Holiday{
	"DE":    de.Holidays,
	"DE-BW": de.HolidaysBW,
	"DE-BY": de.HolidaysBY,
	"DE-BE": de.HolidaysBE,
	"DE-BB": de.HolidaysBB,
	"DE-HB": de.HolidaysHB,
	"DE-HH": de.HolidaysHH,
	"DE-HE": de.HolidaysHE,
	"DE-MV": de.HolidaysMV,
	"DE-NI": de.HolidaysNI,
	"DE-NW": de.HolidaysNW,
	"DE-RP": de.HolidaysRP,
	"DE-SL": de.HolidaysSL,
	"DE-SN": de.HolidaysSN,
	"DE-ST": de.HolidaysST,
	"DE-SH": de.HolidaysSH,
	"DE-TH": de.HolidaysTH,
}

// Calculator считает праздники региона. Без состояния, безопасен для конкурентного использования
type Calculator struct{}

// NewCalculator создает калькулятор праздников
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Holidays возвращает праздники региона за год, отсортированные по дате
func (c *Calculator) Holidays(region string, year int) ([]Holiday, error) {
	list, ok := regions[normalize(region)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRegion, region)
	}
	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	result := make([]Holiday, 0, len(list))
	for _, h := range list {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		result = append(result, Holiday{Date: types.DateOnly(actual), Name: h.Name})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// IsHoliday проверяет, является ли дата праздником в регионе
func (c *Calculator) IsHoliday(region string, date time.Time) (Holiday, bool, error) {
	list, err := c.Holidays(region, date.Year())
	if err != nil {
		return Holiday{}, false, err
	}
	for _, h := range list {
		if types.SameDate(h.Date, date) {
			return h, true, nil
		}
	}
	return Holiday{}, false, nil
}

// Upcoming возвращает не более limit праздников начиная с from (включительно)
func (c *Calculator) Upcoming(region string, from time.Time, limit int) ([]Holiday, error) {
	from = types.DateOnly(from)
	var result []Holiday

	for year := from.Year(); year <= from.Year()+1; year++ {
		list, err := c.Holidays(region, year)
		if err != nil {
			return nil, err
		}
		for _, h := range list {
			if h.Date.Before(from) {
				continue
			}
			result = append(result, h)
			if limit > 0 && len(result) == limit {
				return result, nil
			}
		}
	}
	return result, nil
}

func normalize(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}
