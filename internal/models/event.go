package models

import "time"

// Event types published after successful writes.
const (
	EventProfileCreated = "profile.created"
	EventProfileUpdated = "profile.updated"
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventReviewWritten  = "review.written"
)

// Event is the message body sent to the events queue.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityId"`
	StoreID    string    `json:"storeId,omitempty"`
	ActorID    string    `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}
