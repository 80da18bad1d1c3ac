package create_booking

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных входных данных
	ErrInvalidRequest = errors.New("create_booking: invalid request")

	// ErrNotFound возвращается, когда салон не найден
	ErrNotFound = errors.New("create_booking: shop not found")

	// ErrSlotNoLongerAvailable возвращается, когда время уже занято или мастер больше не работает в это время
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot is no longer available")

	// ErrIncompleteConfiguration возвращается, когда правила салона неполные
	ErrIncompleteConfiguration = errors.New("create_booking: incomplete calendar configuration")

	// ErrUnsupportedRegion возвращается, когда регион салона не поддерживается
	ErrUnsupportedRegion = errors.New("create_booking: unsupported holiday region")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Исходы бронирования для метрик
const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)
