package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// DBErrorInfo carries the API-facing classification of a database error.
type DBErrorInfo struct {
	Code       string
	Message    string
	StatusCode int
}

// ParseDBError classifies a database error into an error code, a safe
// client message, and an HTTP status. Driver-specific failures (unique
// violations, FK violations) are detected by message inspection since
// both the postgres and sqlite drivers surface them as plain errors.
func ParseDBError(err error) DBErrorInfo {
	if err == nil {
		return DBErrorInfo{}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DBErrorInfo{
			Code:       ResourceNotFound,
			Message:    "requested resource not found",
			StatusCode: 404,
		}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case IsDuplicateKeyError(err):
		return DBErrorInfo{
			Code:       ResourceAlreadyExists,
			Message:    "resource already exists",
			StatusCode: 409,
		}
	case strings.Contains(msg, "foreign key"):
		return DBErrorInfo{
			Code:       ResourceConflict,
			Message:    "resource is referenced by other records",
			StatusCode: 409,
		}
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset"):
		return DBErrorInfo{
			Code:       InternalDatabaseError,
			Message:    "database temporarily unavailable",
			StatusCode: 503,
		}
	}

	return DBErrorInfo{
		Code:       InternalDatabaseError,
		Message:    "database operation failed",
		StatusCode: 500,
	}
}

// IsDuplicateKeyError reports whether err is a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
