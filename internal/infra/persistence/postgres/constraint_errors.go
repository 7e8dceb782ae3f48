package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking

func isUniqueConstraintViolation(err error) bool {
	// GORM translates PostgreSQL's unique_violation (23505) into ErrDuplicatedKey.
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotNullConstraintViolation(err error) bool {
	// Check error message for PostgreSQL-specific not null constraint violation patterns
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}
