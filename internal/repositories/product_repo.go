package repositories

import (
	"context"

	"etalase/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	FindByStore(ctx context.Context, storeID string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
