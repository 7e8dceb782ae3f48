// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/response"
	"authd/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=8"`
	FullName  string `json:"fullName" validate:"omitempty,max=100"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyRequest is the optional request body for token verification; the
// Authorization header takes precedence when both are present.
type VerifyRequest struct {
	Token string `json:"token"`
}

// ChangePasswordRequest is the request body for a password change. The
// repeat-equality precondition is enforced here, at the validation edge.
type ChangePasswordRequest struct {
	OldPassword       string `json:"oldPassword" validate:"required"`
	NewPassword       string `json:"newPassword" validate:"required,min=8"`
	RepeatNewPassword string `json:"repeatNewPassword" validate:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest is the request body for a partial profile update.
// Only submitted fields are touched; nil means "leave unchanged".
type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=100"`
	FullName  *string `json:"fullName" validate:"omitempty,max=100"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

// AuthHandler holds dependencies for credential and identity handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "User registered successfully")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Verify handles token verification and sliding-session renewal. The token
// is taken from the Authorization header, falling back to the request body.
func (h *AuthHandler) Verify(c echo.Context) error {
	token, err := middleware.BearerToken(c)
	if err != nil {
		var req VerifyRequest
		if bindErr := c.Bind(&req); bindErr != nil || req.Token == "" {
			return response.Unauthorized(c, "INVALID_INPUT", "Bearer token or token body field is required")
		}
		token = req.Token
	}

	output, err := h.uc.Verify(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token verified")
}

// ChangePassword handles the password change request. The bearer token
// identifies the account; the usecase re-checks the old password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	token, err := middleware.BearerToken(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		Token:             token,
		OldPassword:       req.OldPassword,
		NewPassword:       req.NewPassword,
		RepeatNewPassword: req.RepeatNewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Password changed successfully")
}

// UpdateProfile handles the partial profile update request. The response
// echoes the submitted fields; it does not re-read the record, so callers
// must not expect server-computed values in it.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	fields := make(map[string]any)
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	output, err := h.uc.UpdateProfile(c.Request().Context(), &usecase.UpdateProfileInput{
		UserID: userID,
		Fields: fields,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "User updated successfully")
}
