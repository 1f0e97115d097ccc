package events

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// The bus hands raw database/sql handles to watermill-sql.
var (
	_ watermillsql.ContextExecutor = (*sql.DB)(nil)
	_ watermillsql.ContextExecutor = (*sql.Tx)(nil)
)

func TestPublishTx_DeliveredAfterCommit(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping event bus integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close() //nolint:errcheck

	bus, err := New(db, Options{ConsumerGroup: "bazaar-test-" + uuid.NewString()}, nopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer bus.Close() //nolint:errcheck

	topic := "test." + uuid.NewString()
	got := make(chan samplePayload, 1)
	if _, err := bus.Subscribe(ctx, topic, func(_ context.Context, msg *message.Message) error {
		p, err := Decode[samplePayload](msg)
		if err != nil {
			return err
		}
		got <- p
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := bus.PublishTx(ctx, tx, topic, "evt-1", samplePayload{EventID: "evt-1", Price: 100}); err != nil {
		_ = tx.Rollback()
		t.Fatalf("PublishTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-got:
		if p.Price != 100 {
			t.Fatalf("unexpected payload %+v", p)
		}
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}
