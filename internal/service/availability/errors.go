package availability

import "errors"

var (
	// ErrIncompleteConfiguration возвращается, когда для даты не хватает обязательных правил
	// (нет часов работы на день недели, не задан регион, окно с началом позже конца)
	ErrIncompleteConfiguration = errors.New("availability: incomplete calendar configuration")

	// ErrUnknownStaff возвращается, когда мастер не найден в салоне
	ErrUnknownStaff = errors.New("availability: unknown staff member")

	// ErrUnsupportedRegion возвращается, когда регион салона не поддерживается календарём праздников
	ErrUnsupportedRegion = errors.New("availability: unsupported holiday region")
)
