// Package model contains the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"

	"authd/internal/domain/entity"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// Email and username carry unique indexes; registration conflicts surface as
// constraint violations rather than being pre-checked.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	Username     string    `gorm:"type:varchar(100);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(100)"`
	Bio          string    `gorm:"type:text"`
	AvatarURL    string    `gorm:"type:varchar(512)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain maps the persistence model back to a pure domain entity.
func (m *UserModel) ToDomain() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Bio:          m.Bio,
		AvatarURL:    m.AvatarURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromUserDomain maps a domain entity to its persistence model.
func FromUserDomain(user *entity.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Bio:          user.Bio,
		AvatarURL:    user.AvatarURL,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
