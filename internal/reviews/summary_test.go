package reviews

import (
	"math"
	"testing"

	"etalase/internal/models"

	"github.com/stretchr/testify/assert"
)

func withRatings(ratings ...int) []models.Review {
	out := make([]models.Review, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, models.Review{ID: string(rune('a' + i)), Rating: r, AuthorID: string(rune('A' + i))})
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		count   int
		average float64
	}{
		{name: "empty set averages to zero", ratings: nil, count: 0, average: 0},
		{name: "mixed ratings", ratings: []int{4, 5, 3}, count: 3, average: 4.0},
		{name: "single", ratings: []int{1}, count: 1, average: 1},
		{name: "non integral mean", ratings: []int{5, 4}, count: 2, average: 4.5},
		{name: "thirds", ratings: []int{5, 5, 4}, count: 3, average: 14.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(withRatings(tt.ratings...))
			assert.Equal(t, tt.count, s.Count)
			assert.InDelta(t, tt.average, s.AverageRating, 1e-12)
			assert.False(t, math.IsNaN(s.AverageRating))
		})
	}
}

func TestHasReviewed(t *testing.T) {
	set := withRatings(5, 3)

	assert.True(t, HasReviewed(set, "A"))
	assert.False(t, HasReviewed(set, "Z"))
	assert.False(t, HasReviewed(set, ""))

	r, ok := Find(set, "B")
	assert.True(t, ok)
	assert.Equal(t, 3, r.Rating)
	_, ok = Find(set, "")
	assert.False(t, ok)
}
