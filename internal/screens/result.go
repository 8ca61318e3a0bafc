// Package screens holds the per-screen state that the UI (or the HTTP layer
// standing in for it) renders. Fetches resolve to a tagged Result; a View
// applies results only while its screen is mounted.
package screens

import (
	"sync"
	"sync/atomic"

	"etalase/internal/apperrors"
)

// Result is either a value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Err wraps a failure.
func Err[T any](err error) Result[T] { return Result[T]{Err: err} }

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.Err == nil }

// Kind classifies the error of a failed result.
func (r Result[T]) Kind() apperrors.Kind { return apperrors.KindOf(r.Err) }

// Liveness tracks whether a screen is still mounted. Results resolving after
// Unmount are dropped.
type Liveness struct {
	unmounted atomic.Bool
}

// NewLiveness returns a mounted Liveness.
func NewLiveness() *Liveness { return &Liveness{} }

// Unmount marks the screen gone.
func (l *Liveness) Unmount() { l.unmounted.Store(true) }

// Mounted reports whether results should still be applied.
func (l *Liveness) Mounted() bool { return !l.unmounted.Load() }

// ViewState is what a screen renders: the last good data, and the error of
// the last attempt if it failed.
type ViewState[T any] struct {
	Data   T     `json:"data"`
	Loaded bool  `json:"loaded"`
	Err    error `json:"-"`
}

// Retryable reports whether the screen should offer a manual retry.
func (s ViewState[T]) Retryable() bool { return apperrors.IsFetch(s.Err) }

// View holds one screen's state. The last applied result wins; a failure
// keeps the previous data visible.
type View[T any] struct {
	live *Liveness

	mu    sync.RWMutex
	state ViewState[T]
}

// NewView returns an empty View bound to live.
func NewView[T any](live *Liveness) *View[T] {
	return &View[T]{live: live}
}

// Apply records r unless the screen has been unmounted. It reports whether r was applied.
func (v *View[T]) Apply(r Result[T]) bool {
	if !v.live.Mounted() {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if r.IsOk() {
		v.state = ViewState[T]{Data: r.Value, Loaded: true}
		return true
	}
	v.state.Err = r.Err
	return true
}

// State returns a copy of the current state.
func (v *View[T]) State() ViewState[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// resolve runs fetch on its own goroutine, applies the result and delivers it
// on the returned channel, which receives exactly one value.
func resolve[T any](view *View[T], fetch func() Result[T]) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		r := fetch()
		view.Apply(r)
		out <- r
	}()
	return out
}
