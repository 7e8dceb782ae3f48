// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"authd/config"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{
		cost:   cost,
		policy: cfg.PasswordStrength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
// With no policy configured, only a minimum length of 8 is enforced.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	policy := h.policy
	if policy == nil {
		policy = &config.PasswordStrengthConfig{MinLength: 8}
	}

	var violations []string
	if len(password) < policy.MinLength {
		violations = append(violations, "too short")
	}
	if policy.MaxLength > 0 && len(password) > policy.MaxLength {
		violations = append(violations, "too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if policy.RequireUppercase && !hasUpper {
		violations = append(violations, "missing uppercase letter")
	}
	if policy.RequireLowercase && !hasLower {
		violations = append(violations, "missing lowercase letter")
	}
	if policy.RequireNumbers && !hasNumber {
		violations = append(violations, "missing digit")
	}
	if policy.RequireSpecial && !hasSpecial {
		violations = append(violations, "missing special character")
	}

	if len(violations) > 0 {
		return domainerrors.ErrPasswordStrength.WithDetails(strings.Join(violations, ", "))
	}

	return nil
}
