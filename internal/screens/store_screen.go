package screens

import (
	"context"

	"etalase/internal/models"
	"etalase/internal/viewmodels"
)

// Reader is the read side screens fetch from; *gateway.Gateway implements it.
type Reader interface {
	FetchBusinessProfileByOwner(ctx context.Context, ownerID string) (*models.BusinessProfile, error)
	FetchProductsByStore(ctx context.Context, storeID string) ([]models.Product, error)
	FetchReviewsByStore(ctx context.Context, storeID string) ([]models.Review, error)
}

// StoreData is an owner's storefront. Profile is nil when the owner has none.
type StoreData struct {
	Profile  *viewmodels.BusinessProfile `json:"profile"`
	Products []viewmodels.Product        `json:"products"`
}

// StoreScreen shows an owner's profile and products.
type StoreScreen struct {
	reader Reader
	mapper viewmodels.Mapper
	View   *View[StoreData]
}

// NewStoreScreen returns a StoreScreen bound to live.
func NewStoreScreen(reader Reader, mapper viewmodels.Mapper, live *Liveness) *StoreScreen {
	return &StoreScreen{reader: reader, mapper: mapper, View: NewView[StoreData](live)}
}

// Refresh fetches the owner's profile, then the products of that store.
func (s *StoreScreen) Refresh(ctx context.Context, ownerID string) Result[StoreData] {
	r := s.fetch(ctx, ownerID)
	s.View.Apply(r)
	return r
}

// RefreshAsync is Refresh on its own goroutine.
func (s *StoreScreen) RefreshAsync(ctx context.Context, ownerID string) <-chan Result[StoreData] {
	return resolve(s.View, func() Result[StoreData] { return s.fetch(ctx, ownerID) })
}

func (s *StoreScreen) fetch(ctx context.Context, ownerID string) Result[StoreData] {
	doc, err := s.reader.FetchBusinessProfileByOwner(ctx, ownerID)
	if err != nil {
		return Err[StoreData](err)
	}
	if doc == nil {
		return Ok(StoreData{Products: []viewmodels.Product{}})
	}

	products, err := s.reader.FetchProductsByStore(ctx, doc.ID)
	if err != nil {
		return Err[StoreData](err)
	}
	profile := s.mapper.Profile(*doc)
	return Ok(StoreData{Profile: &profile, Products: s.mapper.Products(products)})
}
