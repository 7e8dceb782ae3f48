package postgres

import (
	"context"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return userM.ToDomain(), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return userM.ToDomain(), nil
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return userM.ToDomain(), nil
}

// Create persists a new user entity to the database. Uniqueness of email and
// username is enforced by the unique indexes; a conflict is translated into
// the domain's already-exists error instead of being pre-checked.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := model.FromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email or username already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required user information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdatePassword replaces the stored password hash of the given user.
func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdateFields applies a partial update of the given columns to the user
// identified by id. Column whitelisting is the caller's responsibility; this
// method reports ErrUserNotFound when no row matched, in which case no write
// took place.
func (repo *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username already exists")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user fields")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
