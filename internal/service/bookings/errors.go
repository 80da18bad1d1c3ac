package bookings

import "errors"

var (
	// ErrNotFound возвращается, когда запись не найдена в салоне
	ErrNotFound = errors.New("bookings: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)

// Исходы отмены для метрик
const (
	outcomeCancelled        = "cancelled"
	outcomeAlreadyCancelled = "already_cancelled"
	outcomeNotFound         = "not_found"
	outcomeError            = "error"
)
