// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authd/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
// Uniqueness of email and username is enforced by the store itself; Create
// surfaces a conflict as a domain error rather than relying on a prior read.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user entity to the storage. The store generates
	// the ID and timestamps and writes them back onto the entity.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the stored password hash of the given user.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateFields applies a partial update of the given columns to the user
	// identified by id. It returns ErrUserNotFound when no row matches.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}
