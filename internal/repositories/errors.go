package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique-constraint failure.
// GORM translates driver errors when TranslateError is on; the string checks
// cover postgres and the sqlite test driver when it is not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
