package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/internal/repositories"
	"etalase/internal/session"
	"etalase/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles writes to a store's products. Only the store's
// owner may change them.
type ProductService struct {
	repo      repositories.ProductRepository
	profiles  repositories.ProfileRepository
	sessions  *session.Store
	validator *validation.Validator
	events    emitter
}

// NewProductService creates a new ProductService. publisher and m may be nil.
func NewProductService(
	repo repositories.ProductRepository,
	profiles repositories.ProfileRepository,
	sessions *session.Store,
	validator *validation.Validator,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		profiles:  profiles,
		sessions:  sessions,
		validator: validator,
		events:    emitter{publisher: publisher, metrics: m, logger: logger},
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("product id is required")
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, backendError("get_product", err)
	}
	return product, nil
}

// CreateProduct adds a product to the caller's store.
func (s *ProductService) CreateProduct(ctx context.Context, storeID string, form validation.ProductForm) (*models.Product, error) {
	uid, err := s.authorize(ctx, storeID, form)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:      uuid.New().String(),
		StoreID: storeID,
	}
	applyProductForm(product, form)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, backendError("create_product", err)
	}
	s.events.emit(ctx, models.EventProductCreated, product.ID, storeID, uid)
	return product, nil
}

// UpdateProduct edits a product of the caller's store.
func (s *ProductService) UpdateProduct(ctx context.Context, storeID, productID string, form validation.ProductForm) (*models.Product, error) {
	uid, err := s.authorize(ctx, storeID, form)
	if err != nil {
		return nil, err
	}
	product, err := s.storeProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	applyProductForm(product, form)
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, backendError("update_product", err)
	}
	s.events.emit(ctx, models.EventProductUpdated, product.ID, storeID, uid)
	return product, nil
}

// DeleteProduct removes a product from the caller's store.
func (s *ProductService) DeleteProduct(ctx context.Context, storeID, productID string) error {
	uid, err := s.authorize(ctx, storeID, nil)
	if err != nil {
		return err
	}
	if _, err := s.storeProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return backendError("delete_product", err)
	}
	s.events.emit(ctx, models.EventProductDeleted, productID, storeID, uid)
	return nil
}

// authorize checks membership, the form (when given) and store ownership, in
// that order, and returns the caller's uid.
func (s *ProductService) authorize(ctx context.Context, storeID string, form any) (string, error) {
	uid, err := requireMember(s.sessions, "manage products")
	if err != nil {
		return "", err
	}
	if storeID == "" {
		return "", apperrors.NewValidationError("store id is required")
	}
	if form != nil {
		if err := s.validator.Struct(form); err != nil {
			return "", err
		}
	}
	store, err := s.profiles.GetByID(ctx, storeID)
	if err != nil {
		return "", backendError("get_profile", err)
	}
	if store.OwnerID != uid {
		return "", fmt.Errorf("store %s: %w", storeID, apperrors.ErrForbidden)
	}
	return uid, nil
}

func (s *ProductService) storeProduct(ctx context.Context, storeID, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, apperrors.NewValidationError("product id is required")
	}
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, backendError("get_product", err)
	}
	if product.StoreID != storeID {
		return nil, fmt.Errorf("product %s in store %s: %w", productID, storeID, apperrors.ErrNotFound)
	}
	return product, nil
}

func applyProductForm(p *models.Product, form validation.ProductForm) {
	p.Name = strings.TrimSpace(form.Name)
	p.Price = form.Price
	if form.InStock != nil {
		inStock := *form.InStock
		p.InStock = &inStock
	}
	p.ImageURL = optional(strings.TrimSpace(form.ImageURL))
}
