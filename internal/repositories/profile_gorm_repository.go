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

// GORMProfileRepository is a GORM implementation of ProfileRepository.
// The unique index on owner_id backs the one-profile-per-owner rule.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{db: db}
}

// FindByOwner retrieves every profile of an owner, oldest first.
func (r *GORMProfileRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.BusinessProfile, error) {
	var profiles []models.BusinessProfile
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get profiles of owner %s: %w", ownerID, err)
	}
	return profiles, nil
}

// GetByID retrieves a profile by its ID.
func (r *GORMProfileRepository) GetByID(ctx context.Context, id string) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by ID %s: %w", id, err)
	}
	return &profile, nil
}

// Create inserts a profile unless the owner already has one.
func (r *GORMProfileRepository) Create(ctx context.Context, profile *models.BusinessProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BusinessProfile{}).Where("owner_id = ?", profile.OwnerID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("owner %s already has a profile: %w", profile.OwnerID, apperrors.ErrConflict)
		}
		return tx.Create(profile).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrConflict):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("owner %s already has a profile: %w", profile.OwnerID, apperrors.ErrConflict)
	default:
		return fmt.Errorf("failed to create profile: %w", err)
	}
}

// Update overwrites the editable fields of a profile.
func (r *GORMProfileRepository) Update(ctx context.Context, profile *models.BusinessProfile) error {
	res := r.db.WithContext(ctx).Model(&models.BusinessProfile{}).Where("id = ?", profile.ID).
		Select("name", "address", "hours", "contact", "email", "website", "social_links",
			"profile_type", "category", "cover_image", "profile_image", "updated_at").
		Updates(profile)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile with ID %s for update: %w", profile.ID, apperrors.ErrNotFound)
	}
	return nil
}
