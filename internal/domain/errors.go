package domain

import "errors"

var (
	// ErrDateInPast дата раньше текущего рабочего дня салона
	ErrDateInPast = errors.New("domain: date is in the past")

	// ErrDateTooFarInFuture дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("domain: date is too far in the future")
)
