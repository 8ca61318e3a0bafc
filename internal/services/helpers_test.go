package services_test

import (
	"context"

	"etalase/internal/models"
	"etalase/internal/session"

	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e models.Event) bool { return e.Type == eventType })
}

func memberStore(uid string) *session.Store {
	return session.NewStoreFrom(session.Snapshot{
		State:    session.SignedIn,
		Identity: &session.Identity{UID: uid, Email: uid + "@example.com"},
		Profile:  &models.UserProfile{UID: uid, FirstName: "Siti", LastName: "Aminah"},
	})
}

func guestStore() *session.Store {
	return session.NewStoreFrom(session.Snapshot{
		State:    session.GuestSession,
		Identity: &session.Identity{UID: "guest-1", Anonymous: true},
	})
}
