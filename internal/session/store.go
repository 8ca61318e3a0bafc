// Package session holds the process-wide auth session and the façade that
// drives it. Screens read snapshots from the Store; only the Facade writes.
package session

import (
	"sync"

	"etalase/internal/models"
)

// State is a step of the session state machine.
type State string

const (
	SignedOut    State = "signed_out"
	SigningIn    State = "signing_in"
	SignedIn     State = "signed_in"
	GuestSession State = "guest"
	SigningUp    State = "signing_up"
)

// Identity is the authenticated account behind a session.
type Identity struct {
	UID       string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"anonymous"`
	Token     string `json:"-"`
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	State    State               `json:"state"`
	Identity *Identity           `json:"identity,omitempty"`
	Profile  *models.UserProfile `json:"profile,omitempty"`
}

// IsGuest reports whether the session is an anonymous one.
func (s Snapshot) IsGuest() bool { return s.State == GuestSession }

// IsMember reports whether a registered account is signed in.
func (s Snapshot) IsMember() bool { return s.State == SignedIn && s.Identity != nil }

// UID returns the signed-in user id, or "".
func (s Snapshot) UID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.UID
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{State: s.State}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

// Store holds the current session. The zero value is not usable; use NewStore.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore returns a signed-out store.
func NewStore() *Store {
	return &Store{
		current: Snapshot{State: SignedOut},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Current returns a copy of the current session.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// replace swaps in next and notifies subscribers outside the lock.
func (s *Store) replace(next Snapshot) {
	s.mu.Lock()
	s.current = next.clone()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
}

// transition moves to state, keeping identity and profile.
func (s *Store) transition(state State) Snapshot {
	next := s.Current()
	next.State = state
	s.replace(next)
	return next
}

// NewStoreFrom returns a store holding a session restored from a previous launch.
func NewStoreFrom(s Snapshot) *Store {
	st := NewStore()
	st.current = s.clone()
	return st
}
