// Package memory provides a map-backed UserRepository. It mirrors the
// semantics of the postgres implementation (store-generated IDs, unique
// email/username enforcement, not-found sentinels) so the usecase and
// delivery layers can be exercised without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entity.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users: make(map[uuid.UUID]*entity.User),
	}
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, user := range repo.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (repo *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, user := range repo.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	// Same conflict semantics as the unique indexes in postgres.
	for _, existing := range repo.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email or username already exists")
		}
	}

	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	repo.users[user.ID] = cloneUser(user)

	return nil
}

func (repo *userRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()

	return nil
}

func (repo *userRepository) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	for column, value := range fields {
		text, _ := value.(string)
		switch column {
		case "username":
			user.Username = text
		case "full_name":
			user.FullName = text
		case "bio":
			user.Bio = text
		case "avatar_url":
			user.AvatarURL = text
		}
	}
	user.UpdatedAt = time.Now()

	return nil
}

func cloneUser(user *entity.User) *entity.User {
	cloned := *user
	return &cloned
}
