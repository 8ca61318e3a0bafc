// Package gateway issues the filtered reads screens need against the document store.
package gateway

import (
	"context"
	"sort"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/imageurl"
	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/internal/repositories"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	opProfileByOwner = "profile_by_owner"
	opProductsBy     = "products_by_store"
	opReviewsBy      = "reviews_by_store"
)

// Gateway reads profiles, products and reviews. Backend failures come back as
// *apperrors.FetchError; the gateway never retries.
type Gateway struct {
	profiles repositories.ProfileRepository
	products repositories.ProductRepository
	reviews  repositories.ReviewRepository
	images   imageurl.Rewriter
	metrics  *metrics.Metrics
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates a Gateway. m may be nil.
func New(
	profiles repositories.ProfileRepository,
	products repositories.ProductRepository,
	reviews repositories.ReviewRepository,
	images imageurl.Rewriter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		profiles: profiles,
		products: products,
		reviews:  reviews,
		images:   images,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("etalase/gateway"),
	}
}

func (g *Gateway) observe(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	g.metrics.ObserveFetch(op, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		g.logger.Warn("fetch failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return apperrors.NewFetchError(op, err)
	}
	return nil
}

// FetchBusinessProfileByOwner returns the owner's profile, or nil when there is none.
// Should the store hold more than one, the first returned wins.
func (g *Gateway) FetchBusinessProfileByOwner(ctx context.Context, ownerID string) (*models.BusinessProfile, error) {
	if ownerID == "" {
		return nil, apperrors.NewValidationError("owner id is required")
	}
	var matches []models.BusinessProfile
	err := g.observe(ctx, opProfileByOwner, ownerID, func(ctx context.Context) error {
		var err error
		matches, err = g.profiles.FindByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		g.logger.Warn("owner has more than one business profile",
			zap.String("owner_id", ownerID),
			zap.Int("count", len(matches)),
			zap.String("using", matches[0].ID))
	}
	profile := matches[0]
	return &profile, nil
}

// FetchProductsByStore returns the products whose store id equals storeID.
func (g *Gateway) FetchProductsByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	if storeID == "" {
		return nil, apperrors.NewValidationError("store id is required")
	}
	var products []models.Product
	err := g.observe(ctx, opProductsBy, storeID, func(ctx context.Context) error {
		var err error
		products, err = g.products.FindByStore(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	filtered := products[:0]
	for _, p := range products {
		if p.StoreID == storeID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// FetchReviewsByStore returns the store's reviews, newest first.
func (g *Gateway) FetchReviewsByStore(ctx context.Context, storeID string) ([]models.Review, error) {
	if storeID == "" {
		return nil, apperrors.NewValidationError("store id is required")
	}
	var list []models.Review
	err := g.observe(ctx, opReviewsBy, storeID, func(ctx context.Context) error {
		var err error
		list, err = g.reviews.FindByStore(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// RewriteImageURL is a pure string operation; see imageurl.Rewriter.
func (g *Gateway) RewriteImageURL(url string, opts imageurl.Options) string {
	return g.images.Rewrite(url, opts)
}
