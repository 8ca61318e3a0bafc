package viewmodels

import (
	"testing"
	"time"

	"etalase/internal/classifiers"
	"etalase/internal/imageurl"
	"etalase/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestProfileDefaults(t *testing.T) {
	m := NewMapper(imageurl.NewRewriter(""))

	vm := m.Profile(models.BusinessProfile{ID: "p1", OwnerID: "u1", Name: "Warung Sari"})

	assert.Equal(t, "p1", vm.ID)
	assert.Equal(t, "", vm.Contact)
	assert.Equal(t, "", vm.Website)
	assert.NotNil(t, vm.SocialLinks)
	assert.Empty(t, vm.SocialLinks)
	assert.Equal(t, classifiers.UnknownProfileType, vm.ProfileType)
	assert.Equal(t, classifiers.UnknownCategory, vm.Category)
	assert.Equal(t, "", vm.CoverImageURL)
}

func TestProfileMapsClassifiersLinksAndImages(t *testing.T) {
	m := NewMapper(imageurl.NewRewriter(""))

	vm := m.Profile(models.BusinessProfile{
		ID:          "p1",
		ProfileType: strPtr("cafe"),
		Category:    strPtr("no-such-category"),
		SocialLinks: []models.SocialLink{
			{Platform: "instagram", URL: "https://instagram.com/sari"},
			{Platform: "friendster", URL: "https://friendster.com/sari"},
			{Platform: "facebook", URL: "  "},
		},
		ProfileImage: strPtr("https://res.cloudinary.com/x/image/upload/v1/me.jpg"),
	})

	assert.Equal(t, "Cafe", vm.ProfileType.Name)
	assert.Equal(t, classifiers.UnknownCategory, vm.Category)
	require.Len(t, vm.SocialLinks, 2)
	assert.Equal(t, "instagram", vm.SocialLinks[0].Platform)
	assert.Equal(t, "Instagram", vm.SocialLinks[0].Display.Name)
	assert.Equal(t, classifiers.UnknownPlatform, vm.SocialLinks[1].Display)
	assert.Equal(t, "https://res.cloudinary.com/x/image/upload/w_200,h_200,c_fill,q_auto,f_auto/v1/me.jpg", vm.ProfileImageURL)
}

func TestProductPriceAndStock(t *testing.T) {
	m := Mapper{}

	p := m.Product(models.Product{ID: "a", StoreID: "s", Name: "Kopi", Price: 12.5})
	assert.Equal(t, "12.50", p.PriceLabel)
	assert.True(t, p.InStock)
	assert.Equal(t, "", p.ThumbnailURL)

	p = m.Product(models.Product{ID: "b", Price: 3, InStock: boolPtr(false), ImageURL: strPtr("https://example.com/p.png")})
	assert.Equal(t, "3.00", p.PriceLabel)
	assert.False(t, p.InStock)
	assert.Equal(t, "https://example.com/p.png", p.ThumbnailURL)
}

func TestReviewAuthorDefaultsToAnonymous(t *testing.T) {
	m := Mapper{}
	now := time.Now()

	r := m.Review(models.Review{ID: "r", Rating: 4, CreatedAt: now})
	assert.Equal(t, AnonymousAuthor, r.AuthorName)
	assert.Equal(t, "", r.Comment)

	r = m.Review(models.Review{AuthorName: strPtr("Budi"), Comment: strPtr("enak")})
	assert.Equal(t, "Budi", r.AuthorName)
	assert.Equal(t, "enak", r.Comment)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0.0", FormatRating(0))
	assert.Equal(t, "4.0", FormatRating(4))
	assert.Equal(t, "4.3", FormatRating(4.333))
	assert.Equal(t, "1200.00", FormatPrice(1200))
	assert.Equal(t, "0.99", FormatPrice(0.99))
}
