// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "authd/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a validator instance for Echo.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the HTTP server.
func New() *CustomValidator {
	return &CustomValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks a bound request struct against its `validate` tags.
// Failures surface as the domain's validation error so the error handler
// renders them through the standard envelope.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
