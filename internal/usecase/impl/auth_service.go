// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/domain/service"
	"authd/internal/usecase"

	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface. All collaborators are
// constructor-injected interfaces so they can be substituted with in-memory
// fakes in tests.
type authService struct {
	users  repository.UserRepository
	hasher service.PasswordHasher
	tokens service.TokenService
	logger *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	users repository.UserRepository,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new user account with a hashed password and signs a token.
// Email uniqueness is enforced by the store's unique index; a conflict there
// surfaces as ErrUserAlreadyExists, so there is no check-then-act race.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.logger.Info("Starting user registration", "email", input.Email)

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, errors.WithStack(err)
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during registration", "error", err)

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Bio:          input.Bio,
		AvatarURL:    input.AvatarURL,
	}

	if err := srv.users.Create(ctx, newUser); err != nil {
		srv.logger.Error("Failed to persist new user", "error", err, "email", input.Email)

		return nil, errors.WithStack(err)
	}

	token, err := srv.tokens.Sign(newUser.ID, newUser.Email, newUser.Username)
	if err != nil {
		srv.logger.Error("Failed to sign token after registration", "error", err)

		return nil, errors.Wrap(err, "failed to sign token after registration")
	}
	srv.logger.Debug("User registered successfully", "userID", newUser.ID)

	return &usecase.AuthOutput{User: newUser, Token: token}, nil
}

// Login authenticates an email/password pair. An unknown email and a failed
// hash comparison return the identical error value so the response carries
// no oracle for which check failed.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}
		srv.logger.Error("Failed to look up user during login", "error", err)

		return nil, errors.WithStack(err)
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokens.Sign(user.ID, user.Email, user.Username)
	if err != nil {
		srv.logger.Error("Failed to sign token during login", "error", err)

		return nil, errors.Wrap(err, "failed to sign token during login")
	}
	srv.logger.Debug("User logged in", "userID", user.ID)

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// Verify validates a bearer token and reissues a fresh one carrying the same
// identity payload. The registered claims (sub, iat, exp) of the old token
// are discarded; only id/email/username survive into the new token. The
// returned user is derived from the claims, without a store read.
func (srv *authService) Verify(_ context.Context, token string) (*usecase.AuthOutput, error) {
	claims, err := srv.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token verification failed")
	}

	renewed, err := srv.tokens.Sign(claims.UserID, claims.Email, claims.Username)
	if err != nil {
		srv.logger.Error("Failed to renew token", "error", err)

		return nil, errors.Wrap(err, "failed to renew token")
	}

	user := &entity.User{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}

	return &usecase.AuthOutput{User: user, Token: renewed}, nil
}

// ChangePassword verifies the token, re-checks the old password against the
// stored hash and replaces it with the hash of the new password.
func (srv *authService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) (*usecase.UserOutput, error) {
	claims, err := srv.tokens.Verify(input.Token)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("password change rejected")
	}

	user, err := srv.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("password change rejected")
		}
		srv.logger.Error("Failed to look up user during password change", "error", err)

		return nil, errors.WithStack(err)
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("old password mismatch")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return nil, errors.WithStack(err)
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		srv.logger.Error("Failed to hash new password", "error", err)

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	if err := srv.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("password change rejected")
		}
		srv.logger.Error("Failed to store new password hash", "error", err, "userID", user.ID)

		return nil, errors.WithStack(err)
	}

	user.PasswordHash = newHash
	srv.logger.Info("Password changed", "userID", user.ID)

	return &usecase.UserOutput{User: user}, nil
}

// updatableColumns whitelists the profile columns a partial update may touch.
var updatableColumns = map[string]struct{}{
	"username":   {},
	"full_name":  {},
	"bio":        {},
	"avatar_url": {},
}

// UpdateProfile applies a partial update of profile fields to the user
// identified by ID. The output echoes the submitted fields rather than the
// refreshed record, so callers must not rely on it reflecting
// server-computed values.
func (srv *authService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*usecase.UpdateProfileOutput, error) {
	if len(input.Fields) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("no fields to update")
	}
	for column := range input.Fields {
		if _, ok := updatableColumns[column]; !ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown field: " + column).WrapMessage("profile update rejected")
		}
	}

	if err := srv.users.UpdateFields(ctx, input.UserID, input.Fields); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile update rejected")
		}
		srv.logger.Error("Failed to update profile", "error", err, "userID", input.UserID)

		return nil, errors.WithStack(err)
	}
	srv.logger.Debug("Profile updated", "userID", input.UserID)

	return &usecase.UpdateProfileOutput{UserID: input.UserID, Fields: input.Fields}, nil
}
