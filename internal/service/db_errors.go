package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports a unique-constraint failure, optionally on a column whose
// name appears in the driver message (sqlite and postgres both include it).
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	unique := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
	if !unique {
		return false
	}
	return column == "" || strings.Contains(msg, strings.ToLower(column))
}
