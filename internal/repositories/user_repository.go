package repositories

import (
	"context"

	"etalase/internal/models"
)

// UserRepository stores credentials for the self-hosted auth provider.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// UserProfileRepository stores the name/email record of registered accounts.
type UserProfileRepository interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
}
