package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a user; emails are unique, case-insensitively.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != nil {
		for _, u := range r.users {
			if u.Email != nil && strings.EqualFold(*u.Email, *user.Email) {
				return fmt.Errorf("email %s: %w", *user.Email, apperrors.ErrConflict)
			}
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &u, nil
}

// Update overwrites an existing user.
func (r *MockUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, apperrors.ErrNotFound)
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// MockUserProfileRepository is an in-memory implementation of UserProfileRepository.
type MockUserProfileRepository struct {
	profiles map[string]models.UserProfile
	mu       sync.RWMutex
}

// NewMockUserProfileRepository creates a new instance of MockUserProfileRepository.
func NewMockUserProfileRepository() *MockUserProfileRepository {
	return &MockUserProfileRepository{
		profiles: make(map[string]models.UserProfile),
	}
}

// Get returns the profile record of uid.
func (r *MockUserProfileRepository) Get(_ context.Context, uid string) (*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("user profile %s: %w", uid, apperrors.ErrNotFound)
	}
	return &p, nil
}

// Save creates or replaces the profile record.
func (r *MockUserProfileRepository) Save(_ context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profile.UID] = *profile
	return nil
}
