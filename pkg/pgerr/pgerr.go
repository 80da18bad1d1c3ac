package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// CodeUniqueViolation SQLSTATE нарушения уникального индекса
const CodeUniqueViolation = "23505"

// Code возвращает SQLSTATE ошибки postgres или пустую строку
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation нарушение уникального индекса
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

