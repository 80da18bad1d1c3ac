package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// PathInt64 извлекает положительный ID из переменной пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// PathDate извлекает дату YYYY-MM-DD из переменной пути
func PathDate(r *http.Request, name string) (time.Time, error) {
	return ParseDate(mux.Vars(r)[name])
}

// ParseDate парсит дату YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	date, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return date, nil
}

// ParseOptionalDate парсит необязательную дату, пустая строка - nil
func ParseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	date, err := ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
