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

// ProfileService handles writes to business profiles.
type ProfileService struct {
	repo      repositories.ProfileRepository
	sessions  *session.Store
	validator *validation.Validator
	events    emitter
}

// NewProfileService creates a new ProfileService. publisher and m may be nil.
func NewProfileService(
	repo repositories.ProfileRepository,
	sessions *session.Store,
	validator *validation.Validator,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		repo:      repo,
		sessions:  sessions,
		validator: validator,
		events:    emitter{publisher: publisher, metrics: m, logger: logger},
	}
}

// Create registers the caller's business profile. An owner has at most one;
// a second attempt fails with apperrors.ErrConflict.
func (s *ProfileService) Create(ctx context.Context, form validation.BusinessProfileForm) (*models.BusinessProfile, error) {
	uid, err := requireMember(s.sessions, "create a business profile")
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	profile := &models.BusinessProfile{
		ID:      uuid.New().String(),
		OwnerID: uid,
	}
	applyProfileForm(profile, form)

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, backendError("create_profile", err)
	}
	s.events.emit(ctx, models.EventProfileCreated, profile.ID, profile.ID, uid)
	return profile, nil
}

// Update replaces the editable fields of a profile the caller owns.
func (s *ProfileService) Update(ctx context.Context, id string, form validation.BusinessProfileForm) (*models.BusinessProfile, error) {
	uid, err := requireMember(s.sessions, "edit a business profile")
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.NewValidationError("profile id is required")
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, backendError("get_profile", err)
	}
	if profile.OwnerID != uid {
		return nil, fmt.Errorf("profile %s: %w", id, apperrors.ErrForbidden)
	}
	applyProfileForm(profile, form)
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, backendError("update_profile", err)
	}
	s.events.emit(ctx, models.EventProfileUpdated, profile.ID, profile.ID, uid)
	return profile, nil
}

func applyProfileForm(p *models.BusinessProfile, form validation.BusinessProfileForm) {
	p.Name = strings.TrimSpace(form.Name)
	p.Address = strings.TrimSpace(form.Address)
	p.Hours = strings.TrimSpace(form.Hours)
	p.Contact = optional(strings.TrimSpace(form.Contact))
	p.Email = optional(strings.TrimSpace(form.Email))
	p.Website = optional(strings.TrimSpace(form.Website))
	p.ProfileType = optional(form.ProfileType)
	p.Category = optional(form.Category)
	p.CoverImage = optional(form.CoverImage)
	p.ProfileImage = optional(form.ProfileImage)

	p.SocialLinks = nil
	for _, l := range form.SocialLinks {
		p.SocialLinks = append(p.SocialLinks, models.SocialLink{
			Platform: strings.ToLower(strings.TrimSpace(l.Platform)),
			URL:      strings.TrimSpace(l.URL),
		})
	}
}
