package repositories

import (
	"context"

	"etalase/internal/models"
)

// ProfileRepository defines the interface for business profile data access.
//
// FindByOwner returns every match; callers decide what to do with duplicates.
// Create returns apperrors.ErrConflict when the owner already has a profile.
type ProfileRepository interface {
	FindByOwner(ctx context.Context, ownerID string) ([]models.BusinessProfile, error)
	GetByID(ctx context.Context, id string) (*models.BusinessProfile, error)
	Create(ctx context.Context, profile *models.BusinessProfile) error
	Update(ctx context.Context, profile *models.BusinessProfile) error
}
