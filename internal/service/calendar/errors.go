package calendar

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("calendar: invalid input data")

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("calendar: shop not found")

	// ErrStaffNotFound возвращается, когда мастер не найден в салоне
	ErrStaffNotFound = errors.New("calendar: staff not found")

	// ErrNotFound возвращается, когда удаляемое правило не найдено
	ErrNotFound = errors.New("calendar: rule not found")

	// ErrConflict возвращается, когда правило уже существует
	ErrConflict = errors.New("calendar: rule already exists")

	// ErrUnsupportedRegion возвращается, когда регион салона не поддерживается
	ErrUnsupportedRegion = errors.New("calendar: unsupported holiday region")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)
