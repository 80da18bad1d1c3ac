package get_holidays

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

// QueryParams параметры запроса праздников.
// Если year указан, возвращается весь год, иначе ближайшие праздники начиная с from
type QueryParams struct {
	Year  *int
	From  *time.Time
	Limit int
}

// ParseQueryParams разбирает year, from, limit
func ParseQueryParams(yearStr, fromStr, limitStr string) (*QueryParams, error) {
	params := &QueryParams{Limit: defaultUpcomingLimit}

	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 || year > 9999 {
			return nil, fmt.Errorf("invalid year %q", yearStr)
		}
		params.Year = &year
	}

	from, err := handlers.ParseOptionalDate(&fromStr)
	if err != nil {
		return nil, err
	}
	params.From = from

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > maxUpcomingLimit {
			return nil, fmt.Errorf("invalid limit %q", limitStr)
		}
		params.Limit = limit
	}

	return params, nil
}
