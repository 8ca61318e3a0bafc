package screens

import (
	"context"

	"etalase/internal/reviews"
	"etalase/internal/session"
	"etalase/internal/viewmodels"
)

// ReviewsData is a store's review list with its summary.
type ReviewsData struct {
	Reviews         []viewmodels.Review `json:"reviews"`
	Summary         reviews.Summary     `json:"summary"`
	AverageLabel    string              `json:"averageLabel"`
	UserHasReviewed bool                `json:"userHasReviewed"`
	MyReview        *viewmodels.Review  `json:"myReview,omitempty"`
	// CanWrite is false for guests and signed-out visitors.
	CanWrite bool `json:"canWrite"`
}

// ReviewsScreen shows a store's reviews for the current session.
type ReviewsScreen struct {
	reader   Reader
	mapper   viewmodels.Mapper
	sessions *session.Store
	View     *View[ReviewsData]
}

// NewReviewsScreen returns a ReviewsScreen bound to live.
func NewReviewsScreen(reader Reader, mapper viewmodels.Mapper, sessions *session.Store, live *Liveness) *ReviewsScreen {
	return &ReviewsScreen{reader: reader, mapper: mapper, sessions: sessions, View: NewView[ReviewsData](live)}
}

// Refresh loads a store's reviews and applies the result to View.
func (s *ReviewsScreen) Refresh(ctx context.Context, storeID string) Result[ReviewsData] {
	r := s.fetch(ctx, storeID)
	s.View.Apply(r)
	return r
}

// RefreshAsync is Refresh on its own goroutine.
func (s *ReviewsScreen) RefreshAsync(ctx context.Context, storeID string) <-chan Result[ReviewsData] {
	return resolve(s.View, func() Result[ReviewsData] { return s.fetch(ctx, storeID) })
}

func (s *ReviewsScreen) fetch(ctx context.Context, storeID string) Result[ReviewsData] {
	docs, err := s.reader.FetchReviewsByStore(ctx, storeID)
	if err != nil {
		return Err[ReviewsData](err)
	}

	snap := s.sessions.Current()
	summary := reviews.Summarize(docs)
	data := ReviewsData{
		Reviews:         s.mapper.Reviews(docs),
		Summary:         summary,
		AverageLabel:    viewmodels.FormatRating(summary.AverageRating),
		UserHasReviewed: reviews.HasReviewed(docs, snap.UID()),
		CanWrite:        snap.IsMember(),
	}
	if mine, ok := reviews.Find(docs, snap.UID()); ok {
		vm := s.mapper.Review(mine)
		data.MyReview = &vm
	}
	return Ok(data)
}
