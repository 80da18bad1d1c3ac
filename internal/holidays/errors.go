package holidays

import "errors"

var (
	// ErrUnsupportedRegion возвращается для неизвестного кода региона
	ErrUnsupportedRegion = errors.New("holidays: unsupported region")

	// ErrInvalidYear возвращается для года вне поддерживаемого диапазона
	ErrInvalidYear = errors.New("holidays: invalid year")
)
