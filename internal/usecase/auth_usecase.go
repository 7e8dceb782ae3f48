// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authd/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FullName  string
	Bio       string
	AvatarURL string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
// NewPassword equalling RepeatNewPassword is a precondition enforced by the
// delivery layer's validation; the core only applies the strength policy.
type ChangePasswordInput struct {
	Token             string
	OldPassword       string
	NewPassword       string
	RepeatNewPassword string
}

// UpdateProfileInput defines a partial profile update. Fields maps store
// column names to their new values; the delivery layer builds it from the
// submitted request body so absent fields are left untouched.
type UpdateProfileInput struct {
	UserID uuid.UUID
	Fields map[string]any
}

// --- Output DTOs ---

// AuthOutput returns a user together with a freshly signed token.
type AuthOutput struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// UserOutput returns a single user record.
type UserOutput struct {
	User *entity.User `json:"user"`
}

// UpdateProfileOutput echoes the submitted fields of a profile update.
// It deliberately does not re-read the record, so server-computed values
// (e.g. UpdatedAt) are not reflected here.
type UpdateProfileOutput struct {
	UserID uuid.UUID      `json:"id"`
	Fields map[string]any `json:"fields"`
}

// AuthUsecase defines the interface for credential and identity operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new user with a hashed password and returns the
	// persisted record plus a signed token.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login authenticates an email/password pair and returns the user plus
	// a signed token.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Verify checks a bearer token and reissues a fresh one carrying the
	// same identity payload (sliding-session renewal).
	Verify(ctx context.Context, token string) (*AuthOutput, error)

	// ChangePassword replaces the stored hash after verifying the token and
	// the old password.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) (*UserOutput, error)

	// UpdateProfile applies a partial update of profile fields by user ID.
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UpdateProfileOutput, error)
}
