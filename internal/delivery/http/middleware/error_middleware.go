package middleware

import (
	"log/slog"
	"net/http"

	"authd/internal/delivery/http/response"
	domainerrors "authd/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPCode(), response.Response{
			Success: false,
			Code:    appErr.HTTPCode(),
			Message: appErr.Message(),
			Error: &response.ErrorInfo{
				Code:    appErr.ErrorCode(),
				Details: appErr.Details(),
			},
		})
		return
	}

	// Check if it's Echo's HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, _ := httpErr.Message.(string)
		if message == "" {
			message = http.StatusText(httpErr.Code)
		}
		c.JSON(httpErr.Code, response.Response{
			Success: false,
			Code:    httpErr.Code,
			Message: message,
			Error: &response.ErrorInfo{
				Code:    "HTTP_ERROR",
				Details: message,
			},
		})
		return
	}

	// Unexpected error: log it and surface the same generic shape the rest
	// of the taxonomy uses. Bad input and infrastructure failure are not
	// differentiated at the status-code level.
	m.logger.Error("Unhandled error",
		"error", err.Error(),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	)

	internal := domainerrors.ErrInternalError
	c.JSON(internal.HTTPCode(), response.Response{
		Success: false,
		Code:    internal.HTTPCode(),
		Message: internal.Message(),
		Error: &response.ErrorInfo{
			Code:    internal.ErrorCode(),
			Details: "",
		},
	})
}
