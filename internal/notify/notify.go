// Package notify covers reminder delivery: finding due task reminders on
// live sessions, queueing them, and pushing them out to whatever channels
// the user registered.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a single reminder delivery
type Notification struct {
	TaskID   uuid.UUID `json:"task_id"`
	Title    string    `json:"title"`
	Body     string    `json:"body,omitempty"`
	RemindAt time.Time `json:"remind_at"`
}

// Sender delivers notifications to a user's registered channels
type Sender interface {
	Send(ctx context.Context, userID uuid.UUID, n Notification) error
}

// Subscription is a registered delivery channel for a user
type Subscription struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "webpush", "webhook"
	Endpoint  string    `json:"endpoint"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionRegistry stores per-user delivery channels
type SubscriptionRegistry interface {
	Register(ctx context.Context, userID uuid.UUID, sub Subscription) error
	Unregister(ctx context.Context, userID uuid.UUID, subID string) error
	List(ctx context.Context, userID uuid.UUID) ([]Subscription, error)
}
