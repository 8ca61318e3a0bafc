package repositories

import (
	"context"
	"fmt"
	"time"

	"etalase/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// FindByStore retrieves a store's reviews, newest first.
func (r *GORMReviewRepository) FindByStore(ctx context.Context, storeID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews of store %s: %w", storeID, err)
	}
	return reviews, nil
}

// Upsert inserts the review or overwrites the author's previous one.
func (r *GORMReviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	review.ID = models.ReviewID(review.StoreID, review.AuthorID)
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(review).Error
	if err != nil {
		return fmt.Errorf("failed to write review %s: %w", review.ID, err)
	}
	return nil
}
