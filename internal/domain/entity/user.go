// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity of the service, representing a single account.
// PasswordHash holds the one-way salted hash of the credential; the
// plaintext password is never stored and the hash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`        // The unique identifier, generated by the store.
	Email        string    `json:"email"`     // The login identifier. Unique across all users.
	Username     string    `json:"username"`  // The public handle. Unique across all users.
	PasswordHash string    `json:"-"`         // One-way hash of the password. Never leaves the service.
	FullName     string    `json:"fullName"`  // The user's display name.
	Bio          string    `json:"bio"`       // Free-form profile text.
	AvatarURL    string    `json:"avatarUrl"` // URL of the user's avatar image.
	CreatedAt    time.Time `json:"createdAt"` // Timestamp of when this account was created.
	UpdatedAt    time.Time `json:"updatedAt"` // Timestamp of the last modification.
}
