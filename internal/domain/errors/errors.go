package errors

import (
	"net/http"

	"authd/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError carrying the same business code, so copies
// produced by WithDetails still compare equal to their sentinel.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types.
//
// Every credential-flow failure carries HTTP 400: the service does not
// distinguish bad input from infrastructure failure at the status-code
// level, only through the business error code.
var (
	ErrUserAlreadyExists = NewBaseError(
		http.StatusBadRequest,
		"USER_ALREADY_EXISTS",
		"A user with this email already exists",
		"",
	)

	// ErrInvalidCredentials covers both an unknown email and a failed hash
	// comparison. Callers get the same error either way so responses carry
	// no oracle for which check failed.
	ErrInvalidCredentials = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TOKEN",
		"Invalid or expired token",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusBadRequest,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"Password does not meet the strength policy",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_HASH_FAILED",
		"Failed to process password",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusBadRequest,
		"INTERNAL_ERROR",
		"Internal service error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code. Store failures surface through the
// same generic 400 shape as every other failure in this service.
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
