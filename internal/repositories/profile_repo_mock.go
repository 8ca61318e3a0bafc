package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/models"

	"github.com/google/uuid"
)

// MockProfileRepository is an in-memory implementation of ProfileRepository.
type MockProfileRepository struct {
	profiles map[string]models.BusinessProfile
	mu       sync.RWMutex
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]models.BusinessProfile),
	}
}

// FindByOwner returns the owner's profiles in creation order.
func (r *MockProfileRepository) FindByOwner(_ context.Context, ownerID string) ([]models.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.BusinessProfile, 0, 1)
	for _, p := range r.profiles {
		if p.OwnerID == ownerID {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches, nil
}

// GetByID returns a profile by its ID.
func (r *MockProfileRepository) GetByID(_ context.Context, id string) (*models.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &profile, nil
}

// Create adds a profile unless the owner already has one.
func (r *MockProfileRepository) Create(_ context.Context, profile *models.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.profiles {
		if p.OwnerID == profile.OwnerID {
			return fmt.Errorf("owner %s already has profile %s: %w", profile.OwnerID, p.ID, apperrors.ErrConflict)
		}
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.ID] = *profile
	return nil
}

// Update overwrites an existing profile.
func (r *MockProfileRepository) Update(_ context.Context, profile *models.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[profile.ID]
	if !ok {
		return fmt.Errorf("profile with ID %s for update: %w", profile.ID, apperrors.ErrNotFound)
	}
	profile.OwnerID = existing.OwnerID
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profile.ID] = *profile
	return nil
}
