package calendar

import "errors"

var (
	// ErrInvalidate возвращается, если не удалось удалить снимок из кэша
	ErrInvalidate = errors.New("calendar.cache: failed to invalidate rules")
)
