package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names in the document store.
const (
	ProfilesCollection     = "businessProfiles"
	ProductsCollection     = "products"
	ReviewsCollection      = "reviews"
	UserProfilesCollection = "users"
)

// collect drains a document iterator, decoding each snapshot with decode.
func collect[T any](iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer iter.Stop()

	out := make([]T, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		item, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
		}
		out = append(out, item)
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// FirestoreProfileRepository is a Firestore implementation of ProfileRepository.
type FirestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a new FirestoreProfileRepository.
func NewFirestoreProfileRepository(client *firestore.Client) *FirestoreProfileRepository {
	return &FirestoreProfileRepository{client: client}
}

func decodeProfile(snap *firestore.DocumentSnapshot) (models.BusinessProfile, error) {
	var p models.BusinessProfile
	if err := snap.DataTo(&p); err != nil {
		return p, err
	}
	p.ID = snap.Ref.ID
	return p, nil
}

// FindByOwner queries profiles whose ownerId equals ownerID.
func (r *FirestoreProfileRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.BusinessProfile, error) {
	iter := r.client.Collection(ProfilesCollection).Where("ownerId", "==", ownerID).Documents(ctx)
	profiles, err := collect(iter, decodeProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles of owner %s: %w", ownerID, err)
	}
	return profiles, nil
}

// GetByID reads a single profile document.
func (r *FirestoreProfileRepository) GetByID(ctx context.Context, id string) (*models.BusinessProfile, error) {
	snap, err := r.client.Collection(ProfilesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("profile with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	p, err := decodeProfile(snap)
	if err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &p, nil
}

// Create checks for an existing profile of the owner and writes the new one in
// the same transaction.
func (r *FirestoreProfileRepository) Create(ctx context.Context, profile *models.BusinessProfile) error {
	col := r.client.Collection(ProfilesCollection)
	ref := col.NewDoc()
	if profile.ID != "" {
		ref = col.Doc(profile.ID)
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.Where("ownerId", "==", profile.OwnerID).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("owner %s already has profile %s: %w", profile.OwnerID, existing[0].Ref.ID, apperrors.ErrConflict)
		}
		return tx.Create(ref, profile)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	profile.ID = ref.ID
	return nil
}

// Update overwrites an existing profile document.
func (r *FirestoreProfileRepository) Update(ctx context.Context, profile *models.BusinessProfile) error {
	ref := r.client.Collection(ProfilesCollection).Doc(profile.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := decodeProfile(snap)
		if err != nil {
			return err
		}
		profile.OwnerID = current.OwnerID
		profile.CreatedAt = current.CreatedAt
		profile.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, profile)
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("profile with ID %s for update: %w", profile.ID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, err)
	}
	return nil
}

// FirestoreProductRepository is a Firestore implementation of ProductRepository.
type FirestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new FirestoreProductRepository.
func NewFirestoreProductRepository(client *firestore.Client) *FirestoreProductRepository {
	return &FirestoreProductRepository{client: client}
}

func decodeProduct(snap *firestore.DocumentSnapshot) (models.Product, error) {
	var p models.Product
	if err := snap.DataTo(&p); err != nil {
		return p, err
	}
	p.ID = snap.Ref.ID
	return p, nil
}

// FindByStore queries products whose storeId equals storeID.
func (r *FirestoreProductRepository) FindByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	iter := r.client.Collection(ProductsCollection).Where("storeId", "==", storeID).Documents(ctx)
	products, err := collect(iter, decodeProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to query products of store %s: %w", storeID, err)
	}
	return products, nil
}

// GetByID reads a single product document.
func (r *FirestoreProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	snap, err := r.client.Collection(ProductsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	p, err := decodeProduct(snap)
	if err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	return &p, nil
}

// Create writes a new product document.
func (r *FirestoreProductRepository) Create(ctx context.Context, product *models.Product) error {
	col := r.client.Collection(ProductsCollection)
	ref := col.NewDoc()
	if product.ID != "" {
		ref = col.Doc(product.ID)
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := ref.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = ref.ID
	return nil
}

// Update merges the editable fields into an existing product document.
func (r *FirestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	updates := []firestore.Update{
		{Path: "name", Value: product.Name},
		{Path: "price", Value: product.Price},
		{Path: "inStock", Value: product.InStock},
		{Path: "imageUrl", Value: product.ImageURL},
		{Path: "updatedAt", Value: product.UpdatedAt},
	}
	if _, err := r.client.Collection(ProductsCollection).Doc(product.ID).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("product with ID %s for update: %w", product.ID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product document; it must exist.
func (r *FirestoreProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(ProductsCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("product with ID %s for deletion: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// FirestoreReviewRepository is a Firestore implementation of ReviewRepository.
type FirestoreReviewRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRepository creates a new FirestoreReviewRepository.
func NewFirestoreReviewRepository(client *firestore.Client) *FirestoreReviewRepository {
	return &FirestoreReviewRepository{client: client}
}

func decodeReview(snap *firestore.DocumentSnapshot) (models.Review, error) {
	var rv models.Review
	if err := snap.DataTo(&rv); err != nil {
		return rv, err
	}
	rv.ID = snap.Ref.ID
	return rv, nil
}

// FindByStore queries a store's reviews ordered by createdAt descending.
// The query needs a composite index on (storeId, createdAt desc).
func (r *FirestoreReviewRepository) FindByStore(ctx context.Context, storeID string) ([]models.Review, error) {
	iter := r.client.Collection(ReviewsCollection).
		Where("storeId", "==", storeID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	reviews, err := collect(iter, decodeReview)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews of store %s: %w", storeID, err)
	}
	return reviews, nil
}

// Upsert sets the review document keyed by (store, author).
func (r *FirestoreReviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	review.ID = models.ReviewID(review.StoreID, review.AuthorID)
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if _, err := r.client.Collection(ReviewsCollection).Doc(review.ID).Set(ctx, review); err != nil {
		return fmt.Errorf("failed to write review %s: %w", review.ID, err)
	}
	return nil
}

// FirestoreUserProfileRepository is a Firestore implementation of UserProfileRepository.
type FirestoreUserProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreUserProfileRepository creates a new FirestoreUserProfileRepository.
func NewFirestoreUserProfileRepository(client *firestore.Client) *FirestoreUserProfileRepository {
	return &FirestoreUserProfileRepository{client: client}
}

// Get reads users/{uid}.
func (r *FirestoreUserProfileRepository) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	snap, err := r.client.Collection(UserProfilesCollection).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user profile %s: %w", uid, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user profile %s: %w", uid, err)
	}
	var p models.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode user profile %s: %w", uid, err)
	}
	p.UID = uid
	return &p, nil
}

// Save writes users/{uid}.
func (r *FirestoreUserProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	if _, err := r.client.Collection(UserProfilesCollection).Doc(profile.UID).Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to save user profile %s: %w", profile.UID, err)
	}
	return nil
}
