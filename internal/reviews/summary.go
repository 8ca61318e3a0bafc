// Package reviews derives display statistics from a store's reviews.
package reviews

import "etalase/internal/models"

// Summary is the review count and mean rating of a store.
type Summary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// Summarize returns the count and arithmetic mean rating. The mean of an
// empty set is 0, never NaN.
func Summarize(reviews []models.Review) Summary {
	if len(reviews) == 0 {
		return Summary{}
	}
	var sum float64
	for _, r := range reviews {
		sum += float64(r.Rating)
	}
	return Summary{
		Count:         len(reviews),
		AverageRating: sum / float64(len(reviews)),
	}
}

// HasReviewed reports whether userID authored one of the reviews.
func HasReviewed(reviews []models.Review, userID string) bool {
	if userID == "" {
		return false
	}
	for _, r := range reviews {
		if r.AuthorID == userID {
			return true
		}
	}
	return false
}

// Find returns the review userID wrote, if any.
func Find(reviews []models.Review, userID string) (models.Review, bool) {
	for _, r := range reviews {
		if userID != "" && r.AuthorID == userID {
			return r, true
		}
	}
	return models.Review{}, false
}
