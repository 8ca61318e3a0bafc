package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/models"
	"etalase/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type backend struct {
	name         string
	profiles     repositories.ProfileRepository
	products     repositories.ProductRepository
	reviews      repositories.ReviewRepository
	users        repositories.UserRepository
	userProfiles repositories.UserProfileRepository
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// forEachBackend runs fn against the in-memory and the GORM repositories.
func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, backend{
			name:         "memory",
			profiles:     repositories.NewMockProfileRepository(),
			products:     repositories.NewMockProductRepository(),
			reviews:      repositories.NewMockReviewRepository(),
			users:        repositories.NewMockUserRepository(),
			userProfiles: repositories.NewMockUserProfileRepository(),
		})
	})
	t.Run("gorm", func(t *testing.T) {
		db := openSQLite(t)
		fn(t, backend{
			name:         "gorm",
			profiles:     repositories.NewGORMProfileRepository(db),
			products:     repositories.NewGORMProductRepository(db),
			reviews:      repositories.NewGORMReviewRepository(db),
			users:        repositories.NewGORMUserRepository(db),
			userProfiles: repositories.NewGORMUserProfileRepository(db),
		})
	})
}

func strPtr(s string) *string { return &s }

func TestProfileRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		none, err := b.profiles.FindByOwner(ctx, "owner-1")
		require.NoError(t, err)
		assert.Empty(t, none)

		profile := &models.BusinessProfile{
			OwnerID:     "owner-1",
			Name:        "Warung Siti",
			Address:     "Jl. Merdeka 10",
			Hours:       "08:00-21:00",
			SocialLinks: []models.SocialLink{{Platform: "instagram", URL: "https://instagram.com/siti"}},
			ProfileType: strPtr("restaurant"),
		}
		require.NoError(t, b.profiles.Create(ctx, profile))
		assert.NotEmpty(t, profile.ID)

		err = b.profiles.Create(ctx, &models.BusinessProfile{OwnerID: "owner-1", Name: "Second"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		found, err := b.profiles.FindByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Warung Siti", found[0].Name)
		assert.Equal(t, "instagram", found[0].SocialLinks[0].Platform)
		require.NotNil(t, found[0].ProfileType)
		assert.Equal(t, "restaurant", *found[0].ProfileType)

		profile.Name = "Warung Siti Baru"
		profile.UpdatedAt = time.Now().UTC()
		require.NoError(t, b.profiles.Update(ctx, profile))
		got, err := b.profiles.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "Warung Siti Baru", got.Name)
		assert.Equal(t, "owner-1", got.OwnerID)

		_, err = b.profiles.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		err = b.profiles.Update(ctx, &models.BusinessProfile{ID: "missing", Name: "x"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProductRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		kopi := &models.Product{StoreID: "store-1", Name: "Kopi Susu", Price: 18000}
		teh := &models.Product{StoreID: "store-1", Name: "Es Teh", Price: 5000, InStock: new(bool)}
		other := &models.Product{StoreID: "store-2", Name: "Roti", Price: 12000}
		for _, p := range []*models.Product{kopi, teh, other} {
			require.NoError(t, b.products.Create(ctx, p))
			assert.NotEmpty(t, p.ID)
		}

		list, err := b.products.FindByStore(ctx, "store-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, p := range list {
			assert.Equal(t, "store-1", p.StoreID)
		}

		got, err := b.products.GetByID(ctx, teh.ID)
		require.NoError(t, err)
		require.NotNil(t, got.InStock)
		assert.False(t, *got.InStock)

		got, err = b.products.GetByID(ctx, kopi.ID)
		require.NoError(t, err)
		assert.Nil(t, got.InStock, "an absent stock flag stays absent")

		kopi.Price = 20000
		require.NoError(t, b.products.Update(ctx, kopi))
		got, err = b.products.GetByID(ctx, kopi.ID)
		require.NoError(t, err)
		assert.Equal(t, 20000.0, got.Price)

		require.NoError(t, b.products.Delete(ctx, kopi.ID))
		_, err = b.products.GetByID(ctx, kopi.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.ErrorIs(t, b.products.Delete(ctx, kopi.ID), apperrors.ErrNotFound)
		assert.ErrorIs(t, b.products.Update(ctx, &models.Product{ID: "missing"}), apperrors.ErrNotFound)

		empty, err := b.products.FindByStore(ctx, "store-9")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestReviewRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		require.NoError(t, b.reviews.Upsert(ctx, &models.Review{StoreID: "store-1", AuthorID: "a", Rating: 5, CreatedAt: base}))
		require.NoError(t, b.reviews.Upsert(ctx, &models.Review{StoreID: "store-1", AuthorID: "b", Rating: 3, CreatedAt: base.Add(time.Hour)}))
		require.NoError(t, b.reviews.Upsert(ctx, &models.Review{StoreID: "store-2", AuthorID: "a", Rating: 1, CreatedAt: base}))

		list, err := b.reviews.FindByStore(ctx, "store-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].AuthorID, "newest first")
		assert.Equal(t, "a", list[1].AuthorID)

		// An edit replaces the author's review and moves it to the top.
		edit := &models.Review{StoreID: "store-1", AuthorID: "a", Rating: 2, Comment: strPtr("changed"), CreatedAt: base.Add(2 * time.Hour)}
		require.NoError(t, b.reviews.Upsert(ctx, edit))
		assert.Equal(t, models.ReviewID("store-1", "a"), edit.ID)

		list, err = b.reviews.FindByStore(ctx, "store-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].AuthorID)
		assert.Equal(t, 2, list[0].Rating)
		require.NotNil(t, list[0].Comment)
		assert.Equal(t, "changed", *list[0].Comment)
	})
}

func TestUserRepositories(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		user := &models.User{Email: strPtr("budi@example.com"), PasswordHash: "hash", DisplayName: "Budi"}
		require.NoError(t, b.users.Create(ctx, user))
		assert.NotEmpty(t, user.ID)

		err := b.users.Create(ctx, &models.User{Email: strPtr("budi@example.com")})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		got, err := b.users.GetByEmail(ctx, "BUDI@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		guest := &models.User{Anonymous: true}
		require.NoError(t, b.users.Create(ctx, guest))
		got, err = b.users.GetByID(ctx, guest.ID)
		require.NoError(t, err)
		assert.True(t, got.Anonymous)

		_, err = b.users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = b.userProfiles.Get(ctx, user.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		require.NoError(t, b.userProfiles.Save(ctx, &models.UserProfile{UID: user.ID, FirstName: "Budi", LastName: "Santoso", Email: "budi@example.com"}))
		require.NoError(t, b.userProfiles.Save(ctx, &models.UserProfile{UID: user.ID, FirstName: "Budi", LastName: "Prasetyo", Email: "budi@example.com"}))
		profile, err := b.userProfiles.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Prasetyo", profile.LastName)
	})
}
