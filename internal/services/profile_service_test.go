package services_test

import (
	"context"
	"testing"

	"etalase/internal/apperrors"
	"etalase/internal/models"
	"etalase/internal/repositories"
	"etalase/internal/services"
	"etalase/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func profileForm() validation.BusinessProfileForm {
	return validation.BusinessProfileForm{
		Name:        "Warung Siti",
		Address:     "Jl. Merdeka 10, Bandung",
		Hours:       "08:00-21:00",
		Email:       "warung@example.com",
		ProfileType: "restaurant",
		SocialLinks: []validation.SocialLinkForm{
			{Platform: " Instagram ", URL: "https://instagram.com/warungsiti"},
		},
	}
}

func TestProfileService_Create(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	publisher := new(MockPublisher)
	service := services.NewProfileService(repo, memberStore("owner-1"), validation.New(), publisher, nil, zap.NewNop())
	ctx := context.Background()

	publisher.On("PublishEvent", ctx, eventOfType(models.EventProfileCreated)).Return(nil).Once()

	profile, err := service.Create(ctx, profileForm())
	require.NoError(t, err)
	assert.Equal(t, "owner-1", profile.OwnerID)
	assert.NotEmpty(t, profile.ID)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "warung@example.com", *profile.Email)
	assert.Nil(t, profile.Website)
	assert.Equal(t, []models.SocialLink{{Platform: "instagram", URL: "https://instagram.com/warungsiti"}}, profile.SocialLinks)

	stored, err := repo.FindByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	publisher.AssertExpectations(t)
}

func TestProfileService_CreateOnePerOwner(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	service := services.NewProfileService(repo, memberStore("owner-1"), validation.New(), nil, nil, zap.NewNop())
	ctx := context.Background()

	_, err := service.Create(ctx, profileForm())
	require.NoError(t, err)

	_, err = service.Create(ctx, profileForm())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := repo.FindByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestProfileService_CreateRejectsGuests(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	service := services.NewProfileService(repo, guestStore(), validation.New(), nil, nil, zap.NewNop())

	_, err := service.Create(context.Background(), profileForm())
	assert.True(t, apperrors.IsValidation(err))

	stored, err := repo.FindByOwner(context.Background(), "guest-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestProfileService_CreateValidates(t *testing.T) {
	service := services.NewProfileService(repositories.NewMockProfileRepository(), memberStore("owner-1"), validation.New(), nil, nil, zap.NewNop())
	form := profileForm()
	form.Name = "W"
	form.Website = "not a url"

	_, err := service.Create(context.Background(), form)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "website")
}

func TestProfileService_Update(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.BusinessProfile{ID: "store-1", OwnerID: "owner-1", Name: "Lama"}))
	require.NoError(t, repo.Create(ctx, &models.BusinessProfile{ID: "store-2", OwnerID: "owner-2", Name: "Toko Budi"}))

	publisher := new(MockPublisher)
	publisher.On("PublishEvent", ctx, eventOfType(models.EventProfileUpdated)).Return(nil).Once()
	service := services.NewProfileService(repo, memberStore("owner-1"), validation.New(), publisher, nil, zap.NewNop())

	updated, err := service.Update(ctx, "store-1", profileForm())
	require.NoError(t, err)
	assert.Equal(t, "Warung Siti", updated.Name)
	assert.Equal(t, "owner-1", updated.OwnerID)

	stored, err := repo.GetByID(ctx, "store-1")
	require.NoError(t, err)
	assert.Equal(t, "Warung Siti", stored.Name)

	_, err = service.Update(ctx, "store-2", profileForm())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = service.Update(ctx, "store-404", profileForm())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = service.Update(ctx, "", profileForm())
	assert.True(t, apperrors.IsValidation(err))
	publisher.AssertExpectations(t)
}
