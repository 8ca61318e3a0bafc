package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"etalase/internal/models"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// FindByStore returns the store's reviews, newest first.
func (r *MockReviewRepository) FindByStore(_ context.Context, storeID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviewList := make([]models.Review, 0)
	for _, rv := range r.reviews {
		if rv.StoreID == storeID {
			reviewList = append(reviewList, rv)
		}
	}
	sort.SliceStable(reviewList, func(i, j int) bool {
		if reviewList[i].CreatedAt.Equal(reviewList[j].CreatedAt) {
			return reviewList[i].ID < reviewList[j].ID
		}
		return reviewList[i].CreatedAt.After(reviewList[j].CreatedAt)
	})
	return reviewList, nil
}

// Upsert writes the review under its (store, author) id, replacing any previous one.
func (r *MockReviewRepository) Upsert(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review.ID = models.ReviewID(review.StoreID, review.AuthorID)
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	r.reviews[review.ID] = *review
	return nil
}
