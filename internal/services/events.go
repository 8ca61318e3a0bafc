package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/internal/session"

	"go.uber.org/zap"
)

// EventPublisher sends domain events to whoever listens. pkg/rabbitmq implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.Event) error
}

// emitter publishes events after successful writes. A nil publisher skips
// publication; failures are logged and never reach the caller.
type emitter struct {
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func (e emitter) emit(ctx context.Context, eventType, entityID, storeID, actorID string) {
	if e.publisher == nil {
		e.logger.Debug("event publisher not configured, skipping event", zap.String("type", eventType))
		return
	}
	event := models.Event{
		Type:       eventType,
		EntityID:   entityID,
		StoreID:    storeID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if err := e.publisher.PublishEvent(ctx, event); err != nil {
		e.metrics.IncrementEvent(eventType, "error")
		e.logger.Warn("failed to publish event",
			zap.String("type", eventType), zap.String("entity_id", entityID), zap.Error(err))
		return
	}
	e.metrics.IncrementEvent(eventType, "ok")
}

// requireMember returns the uid of the signed-in member. Guests and signed-out
// callers get a ValidationError before any I/O.
func requireMember(sessions *session.Store, action string) (string, error) {
	snap := sessions.Current()
	if snap.IsGuest() {
		return "", apperrors.NewValidationError(fmt.Sprintf("guests cannot %s; create an account first", action))
	}
	if !snap.IsMember() {
		return "", apperrors.NewValidationError(fmt.Sprintf("sign in to %s", action))
	}
	return snap.UID(), nil
}

// backendError keeps the repository sentinels visible and wraps anything else
// as a FetchError.
func backendError(op string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrForbidden) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperrors.NewFetchError(op, err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
