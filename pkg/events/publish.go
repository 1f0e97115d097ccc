package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MetadataEventID carries the payload's own event id for consumer dedup.
const MetadataEventID = "event_id"

// NewMessage JSON-encodes payload into a message stamped with eventID and the
// OTel trace context of ctx.
func NewMessage(ctx context.Context, eventID string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventID, eventID)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return v, nil
}

// Publish sends payload to topic outside any transaction.
func (b *EventBus) Publish(ctx context.Context, topic, eventID string, payload any) error {
	msg, err := NewMessage(ctx, eventID, payload)
	if err != nil {
		return err
	}
	if err := b.publisher.Publish(topic, msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishTx writes payload to topic as part of tx. The message becomes
// visible to subscribers only if tx commits.
func (b *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic, eventID string, payload any) error {
	msg, err := NewMessage(ctx, eventID, payload)
	if err != nil {
		return err
	}
	// Tables already exist once the bus is constructed.
	pub, err := newSQLPublisher(tx, false, b.wlog)
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}
	if err := wrapForwarder(pub, b.opts.Forwarder).Publish(topic, msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}
