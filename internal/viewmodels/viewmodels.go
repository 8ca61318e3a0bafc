// Package viewmodels maps raw backend documents into the shapes screens render.
// Every optional field gets an explicit default so display code never checks for nil.
package viewmodels

import (
	"strconv"
	"strings"
	"time"

	"etalase/internal/classifiers"
	"etalase/internal/imageurl"
	"etalase/internal/models"

	"github.com/shopspring/decimal"
)

// AnonymousAuthor is shown for reviews without an author name.
const AnonymousAuthor = "Anonymous"

// SocialLink is a profile link with its platform's display classifier.
type SocialLink struct {
	Platform string                 `json:"platform"`
	URL      string                 `json:"url"`
	Display  classifiers.Classifier `json:"display"`
}

// BusinessProfile is a store profile ready to render. Optional fields are
// empty strings and unknown classifiers resolve to their fallback entry.
type BusinessProfile struct {
	ID              string                 `json:"id"`
	OwnerID         string                 `json:"ownerId"`
	Name            string                 `json:"name"`
	Address         string                 `json:"address"`
	Hours           string                 `json:"hours"`
	Contact         string                 `json:"contact"`
	Email           string                 `json:"email"`
	Website         string                 `json:"website"`
	SocialLinks     []SocialLink           `json:"socialLinks"`
	ProfileTypeID   string                 `json:"profileTypeId"`
	ProfileType     classifiers.Classifier `json:"profileType"`
	CategoryID      string                 `json:"categoryId"`
	Category        classifiers.Classifier `json:"category"`
	CoverImageURL   string                 `json:"coverImageUrl"`
	ProfileImageURL string                 `json:"profileImageUrl"`
}

// Product is a product ready to render.
type Product struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"storeId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceLabel   string          `json:"priceLabel"`
	InStock      bool            `json:"inStock"`
	ImageURL     string          `json:"imageUrl"`
	ThumbnailURL string          `json:"thumbnailUrl"`
}

// Review is a review ready to render.
type Review struct {
	ID         string    `json:"id"`
	StoreID    string    `json:"storeId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Mapper converts documents. The zero value uses the default image host.
type Mapper struct {
	images imageurl.Rewriter
}

// NewMapper returns a Mapper that rewrites image URLs with images.
func NewMapper(images imageurl.Rewriter) Mapper {
	return Mapper{images: images}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Profile maps a business profile document.
func (m Mapper) Profile(doc models.BusinessProfile) BusinessProfile {
	links := make([]SocialLink, 0, len(doc.SocialLinks))
	for _, l := range doc.SocialLinks {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		links = append(links, SocialLink{
			Platform: l.Platform,
			URL:      l.URL,
			Display:  classifiers.LookupPlatform(l.Platform),
		})
	}
	typeID := deref(doc.ProfileType)
	categoryID := deref(doc.Category)
	return BusinessProfile{
		ID:              doc.ID,
		OwnerID:         doc.OwnerID,
		Name:            doc.Name,
		Address:         doc.Address,
		Hours:           doc.Hours,
		Contact:         deref(doc.Contact),
		Email:           deref(doc.Email),
		Website:         deref(doc.Website),
		SocialLinks:     links,
		ProfileTypeID:   typeID,
		ProfileType:     classifiers.LookupProfileType(typeID),
		CategoryID:      categoryID,
		Category:        classifiers.LookupCategory(categoryID),
		CoverImageURL:   m.images.Rewrite(deref(doc.CoverImage), imageurl.Cover),
		ProfileImageURL: m.images.Rewrite(deref(doc.ProfileImage), imageurl.Avatar),
	}
}

// Product maps a product. A missing in-stock flag means the product is in stock.
func (m Mapper) Product(doc models.Product) Product {
	price := decimal.NewFromFloat(doc.Price).Round(2)
	inStock := true
	if doc.InStock != nil {
		inStock = *doc.InStock
	}
	image := deref(doc.ImageURL)
	return Product{
		ID:           doc.ID,
		StoreID:      doc.StoreID,
		Name:         doc.Name,
		Price:        price,
		PriceLabel:   FormatPrice(doc.Price),
		InStock:      inStock,
		ImageURL:     image,
		ThumbnailURL: m.images.Rewrite(image, imageurl.Thumbnail),
	}
}

// Products maps a list of product documents.
func (m Mapper) Products(docs []models.Product) []Product {
	out := make([]Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, m.Product(d))
	}
	return out
}

// Review maps a review document; an empty author name becomes AnonymousAuthor.
func (m Mapper) Review(doc models.Review) Review {
	author := deref(doc.AuthorName)
	if author == "" {
		author = AnonymousAuthor
	}
	return Review{
		ID:         doc.ID,
		StoreID:    doc.StoreID,
		AuthorID:   doc.AuthorID,
		AuthorName: author,
		Rating:     doc.Rating,
		Comment:    deref(doc.Comment),
		CreatedAt:  doc.CreatedAt,
	}
}

// Reviews maps a list of review documents, keeping their order.
func (m Mapper) Reviews(docs []models.Review) []Review {
	out := make([]Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, m.Review(d))
	}
	return out
}

// FormatPrice renders a price with exactly two fraction digits.
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

// FormatRating renders an average rating with one fraction digit.
func FormatRating(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 1, 64)
}
