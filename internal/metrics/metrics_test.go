package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("reviews", time.Millisecond, errors.New("boom"))
		m.IncrementAuth("login", "ok")
		m.IncrementEvent("review.written", "ok")
	})
}

func TestObserveFetchCountsFailures(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("products", 5*time.Millisecond, nil)
	m.ObserveFetch("products", 5*time.Millisecond, errors.New("unavailable"))
	m.IncrementAuth("login", "auth_error")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues("products")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("login", "auth_error")))
}
