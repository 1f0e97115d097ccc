// Package postgres implements the marketplace repositories on PostgreSQL.
// Every write runs in a transaction that also carries its outbox event.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ghuser/bazaar/pkg/events"
	domainevents "github.com/ghuser/bazaar/services/marketplace/domain/events"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	"github.com/ghuser/bazaar/services/marketplace/infrastructure/persistence/postgres/db"
)

// Publisher writes an event into the outbox inside tx.
type Publisher interface {
	PublishTx(ctx context.Context, tx *sql.Tx, topic, eventID string, payload any) error
}

// outbox publishes through pub, or does nothing when no bus is configured.
type outbox struct {
	pub Publisher
}

func newOutbox(bus *events.EventBus) outbox {
	if bus == nil {
		return outbox{}
	}
	return outbox{pub: bus}
}

func (o outbox) publish(ctx context.Context, tx *sqlx.Tx, topic string, eventID uuid.UUID, payload any) error {
	if o.pub == nil {
		return nil
	}
	if err := o.pub.PublishTx(ctx, tx.Tx, topic, eventID.String(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func statusChanged(t repositories.Transition) domainevents.StatusChangedEvent {
	return domainevents.StatusChangedEvent{
		Envelope: domainevents.NewEnvelope(time.Now()),
		EntityID: t.ID,
		ActorID:  t.ActorID,
		Active:   t.To.IsActive(),
	}
}

// setActive performs the compare-and-swap and distinguishes a lost race from
// a missing row. exists is only consulted when no row changed.
func setActive(
	ctx context.Context,
	t repositories.Transition,
	swap func(ctx context.Context, id uuid.UUID, from, to bool) (bool, error),
	exists func(ctx context.Context, id uuid.UUID) error,
) error {
	if t.From != lifecycle.Active && t.From != lifecycle.Inactive {
		return fmt.Errorf("set status: invalid state %s", t.From)
	}
	ok, err := swap(ctx, t.ID, t.From.IsActive(), t.To.IsActive())
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if ok {
		return nil
	}
	if err := exists(ctx, t.ID); err != nil {
		return err
	}
	return repositories.ErrStaleState
}

func limitOffset(opts repositories.QueryOpts) (int, int) {
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	return opts.Limit, offset
}

var _ db.DBTX = (*sqlx.Tx)(nil)
