package get_available_slots

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректном запросе (дата, услуга, мастер)
	ErrInvalidRequest = errors.New("get_available_slots: invalid request")

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("get_available_slots: shop not found")

	// ErrIncompleteConfiguration возвращается, когда правила салона неполные
	ErrIncompleteConfiguration = errors.New("get_available_slots: incomplete calendar configuration")

	// ErrUnsupportedRegion возвращается, когда регион салона не поддерживается
	ErrUnsupportedRegion = errors.New("get_available_slots: unsupported holiday region")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
