package repositories

import (
	"context"
	"errors"
	"fmt"

	"etalase/internal/apperrors"
	"etalase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Email != nil {
		if _, err := r.GetByEmail(ctx, *user.Email); err == nil {
			return fmt.Errorf("email %s: %w", *user.Email, apperrors.ErrConflict)
		}
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update saves every field of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Select("email", "password_hash", "display_name", "anonymous", "updated_at").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, apperrors.ErrNotFound)
	}
	return nil
}

// GORMUserProfileRepository is a GORM implementation of UserProfileRepository.
type GORMUserProfileRepository struct {
	db *gorm.DB
}

// NewGORMUserProfileRepository creates a new instance of GORMUserProfileRepository.
func NewGORMUserProfileRepository(db *gorm.DB) *GORMUserProfileRepository {
	return &GORMUserProfileRepository{db: db}
}

// Get retrieves the profile record of uid.
func (r *GORMUserProfileRepository) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user profile %s: %w", uid, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user profile %s: %w", uid, err)
	}
	return &profile, nil
}

// Save creates or replaces the profile record.
func (r *GORMUserProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save user profile %s: %w", profile.UID, err)
	}
	return nil
}

// AutoMigrate creates or updates every table the GORM repositories use.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BusinessProfile{},
		&models.Product{},
		&models.Review{},
		&models.UserProfile{},
		&models.User{},
	)
}
