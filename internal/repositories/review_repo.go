package repositories

import (
	"context"

	"etalase/internal/models"
)

// ReviewRepository defines the interface for review data access.
// FindByStore returns reviews newest first.
type ReviewRepository interface {
	FindByStore(ctx context.Context, storeID string) ([]models.Review, error)
	Upsert(ctx context.Context, review *models.Review) error
}
