package middleware

import (
	"net/http"
	"strings"

	"authd/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUserID   = "userID"
	ContextKeyEmail    = "email"
	ContextKeyUsername = "username"
	ContextKeyToken    = "token"
)

// AuthMiddleware provides middleware for bearer-token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := BearerToken(c)
		if err != nil {
			return err
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set user info on the context for handlers to use
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyToken, tokenString)

		return next(c)
	}
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format, must be Bearer token")
	}

	return tokenString, nil
}
