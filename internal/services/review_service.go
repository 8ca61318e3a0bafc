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
	"etalase/internal/reviews"
	"etalase/internal/session"
	"etalase/internal/validation"
	"etalase/internal/viewmodels"

	"go.uber.org/zap"
)

// ReviewReader is the read side reviews come from; the gateway implements it.
type ReviewReader interface {
	FetchReviewsByStore(ctx context.Context, storeID string) ([]models.Review, error)
}

// ReviewService handles review authorship.
type ReviewService struct {
	repo      repositories.ReviewRepository
	profiles  repositories.ProfileRepository
	reader    ReviewReader
	sessions  *session.Store
	validator *validation.Validator
	events    emitter
	now       func() time.Time
}

// NewReviewService creates a new ReviewService. publisher and m may be nil.
func NewReviewService(
	repo repositories.ReviewRepository,
	profiles repositories.ProfileRepository,
	reader ReviewReader,
	sessions *session.Store,
	validator *validation.Validator,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		repo:      repo,
		profiles:  profiles,
		reader:    reader,
		sessions:  sessions,
		validator: validator,
		events:    emitter{publisher: publisher, metrics: m, logger: logger},
		now:       time.Now,
	}
}

// Write creates or replaces the caller's review of a store. The document id
// is derived from (store, author), so an edit overwrites the earlier review
// and moves it to the top of the list.
func (s *ReviewService) Write(ctx context.Context, storeID string, form validation.ReviewForm) (*models.Review, error) {
	uid, err := requireMember(s.sessions, "write a review")
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return nil, apperrors.NewValidationError("store id is required")
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	store, err := s.profiles.GetByID(ctx, storeID)
	if err != nil {
		return nil, backendError("get_profile", err)
	}
	if store.OwnerID == uid {
		return nil, fmt.Errorf("owner reviewing own store %s: %w", storeID, apperrors.ErrForbidden)
	}

	authorName := strings.TrimSpace(form.AuthorName)
	if authorName == "" {
		authorName = viewmodels.AnonymousAuthor
	}
	review := &models.Review{
		ID:         models.ReviewID(storeID, uid),
		StoreID:    storeID,
		AuthorID:   uid,
		AuthorName: &authorName,
		Rating:     form.Rating,
		Comment:    optional(strings.TrimSpace(form.Comment)),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		return nil, backendError("write_review", err)
	}
	s.events.emit(ctx, models.EventReviewWritten, review.ID, storeID, uid)
	return review, nil
}

// UserHasReviewed reports whether userID has a review among the store's reviews.
func (s *ReviewService) UserHasReviewed(ctx context.Context, storeID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	list, err := s.reader.FetchReviewsByStore(ctx, storeID)
	if err != nil {
		return false, err
	}
	return reviews.HasReviewed(list, userID), nil
}
