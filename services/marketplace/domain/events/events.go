// Package events declares the integration events the marketplace publishes
// through the outbox. Every event is written in the same transaction as the
// row change it describes.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics.
const (
	TopicAccountCreated       = "account.created"
	TopicAccountUpdated       = "account.updated"
	TopicAccountStatusChanged = "account.status_changed"

	TopicItemCreated       = "item.created"
	TopicItemUpdated       = "item.updated"
	TopicItemStatusChanged = "item.status_changed"

	TopicCategoryCreated       = "category.created"
	TopicCategoryStatusChanged = "category.status_changed"
)

// Version is the current schema version of every payload below.
const Version = 1

// Envelope is embedded in every event.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a fresh event id at the current version.
func NewEnvelope(at time.Time) Envelope {
	return Envelope{EventID: uuid.New(), Version: Version, OccurredAt: at.UTC()}
}

// AccountSnapshot is the public view of an account carried by account events.
// Phone is deliberately absent.
type AccountSnapshot struct {
	AccountID uuid.UUID `json:"account_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
}

// AccountCreatedEvent is published after an account is inserted.
type AccountCreatedEvent struct {
	Envelope
	AccountSnapshot
}

// AccountUpdatedEvent is published after profile fields change.
type AccountUpdatedEvent struct {
	Envelope
	AccountSnapshot
}

// ItemSnapshot is the full item state; the worker rebuilds the item read
// model from it without querying Postgres.
type ItemSnapshot struct {
	ItemID     uuid.UUID `json:"item_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemCreatedEvent is published after an item is inserted.
type ItemCreatedEvent struct {
	Envelope
	ItemSnapshot
}

// ItemUpdatedEvent is published after name, price or category change.
type ItemUpdatedEvent struct {
	Envelope
	ItemSnapshot
}

// CategoryCreatedEvent is published after a category is inserted.
type CategoryCreatedEvent struct {
	Envelope
	CategoryID uuid.UUID `json:"category_id"`
	AdminID    uuid.UUID `json:"admin_id"`
	Name       string    `json:"name"`
}

// StatusChangedEvent is published on every lifecycle transition of an
// account, item or category. Active is the state after the transition.
type StatusChangedEvent struct {
	Envelope
	EntityID uuid.UUID `json:"entity_id"`
	ActorID  uuid.UUID `json:"actor_id"`
	Active   bool      `json:"active"`
}
