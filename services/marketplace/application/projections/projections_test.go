package projections

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/bazaar/pkg/cache"
	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/pkg/logger"
	domainevents "github.com/ghuser/bazaar/services/marketplace/domain/events"
)

type recordingCache struct {
	mu      sync.Mutex
	set     map[uuid.UUID]pkgcache.CachedItem
	deleted []uuid.UUID
	err     error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{set: map[uuid.UUID]pkgcache.CachedItem{}}
}

func (c *recordingCache) Get(context.Context, uuid.UUID) (*pkgcache.CachedItem, error) {
	return nil, pkgcache.ErrMiss
}

func (c *recordingCache) Set(_ context.Context, item *pkgcache.CachedItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.set[item.ID] = *item
	return nil
}

func (c *recordingCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	return c.err
}

func snapshot() domainevents.ItemSnapshot {
	return domainevents.ItemSnapshot{
		ItemID:     uuid.New(),
		SellerID:   uuid.New(),
		CategoryID: uuid.New(),
		Name:       "Brass lamp",
		Price:      129900,
		Active:     true,
		CreatedAt:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestItemCache_CreatedAndUpdatedStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	handlers := NewItemCache(cache, logger.Nop()).Handlers()

	s := snapshot()
	created := domainevents.ItemCreatedEvent{Envelope: domainevents.NewEnvelope(s.CreatedAt), ItemSnapshot: s}
	msg, err := events.NewMessage(ctx, created.EventID.String(), created)
	if err != nil {
		t.Fatal(err)
	}
	if err := handlers[domainevents.TopicItemCreated](ctx, msg); err != nil {
		t.Fatalf("created: %v", err)
	}

	s.Price = 99900
	updated := domainevents.ItemUpdatedEvent{Envelope: domainevents.NewEnvelope(time.Now()), ItemSnapshot: s}
	msg, _ = events.NewMessage(ctx, updated.EventID.String(), updated)
	if err := handlers[domainevents.TopicItemUpdated](ctx, msg); err != nil {
		t.Fatalf("updated: %v", err)
	}

	got := cache.set[s.ItemID]
	if got.Price != 99900 || got.Name != "Brass lamp" || got.SellerID != s.SellerID || !got.CreatedAt.Equal(s.CreatedAt) {
		t.Fatalf("unexpected cache entry: %+v", got)
	}
}

func TestItemCache_StatusChangedEvicts(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	h := NewItemCache(cache, logger.Nop()).Handlers()[domainevents.TopicItemStatusChanged]

	evt := domainevents.StatusChangedEvent{Envelope: domainevents.NewEnvelope(time.Now()), EntityID: uuid.New()}
	msg, _ := events.NewMessage(ctx, evt.EventID.String(), evt)
	if err := h(ctx, msg); err != nil {
		t.Fatal(err)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != evt.EntityID {
		t.Fatalf("expected eviction of %s, got %v", evt.EntityID, cache.deleted)
	}
}

func TestItemCache_ErrorsPropagateForRetry(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	cache.err = errors.New("redis down")
	h := NewItemCache(cache, logger.Nop()).Handlers()[domainevents.TopicItemCreated]

	evt := domainevents.ItemCreatedEvent{Envelope: domainevents.NewEnvelope(time.Now()), ItemSnapshot: snapshot()}
	msg, _ := events.NewMessage(ctx, evt.EventID.String(), evt)
	if err := h(ctx, msg); !errors.Is(err, cache.err) {
		t.Fatalf("expected cache error, got %v", err)
	}
}

func TestAudit_HandlesEveryTopic(t *testing.T) {
	ctx := context.Background()
	handlers := Audit(logger.Nop())
	if len(handlers) != len(AuditTopics) {
		t.Fatalf("expected %d handlers, got %d", len(AuditTopics), len(handlers))
	}
	evt := domainevents.CategoryCreatedEvent{Envelope: domainevents.NewEnvelope(time.Now()), CategoryID: uuid.New(), Name: "Lighting"}
	msg, _ := events.NewMessage(ctx, evt.EventID.String(), evt)
	for topic, h := range handlers {
		if err := h(ctx, msg); err != nil {
			t.Fatalf("%s: %v", topic, err)
		}
	}
}

type fakeBus struct {
	topics []string
	fail   string
}

func (b *fakeBus) Subscribe(_ context.Context, topic string, _ events.Handler) (<-chan error, error) {
	if topic == b.fail {
		return nil, errors.New("subscribe failed")
	}
	b.topics = append(b.topics, topic)
	ch := make(chan error)
	close(ch)
	return ch, nil
}

func TestRegister(t *testing.T) {
	bus := &fakeBus{fail: domainevents.TopicItemUpdated}
	handlers := NewItemCache(newRecordingCache(), logger.Nop()).Handlers()

	err := Register(context.Background(), bus, handlers, logger.Nop())
	if err == nil {
		t.Fatal("expected the failed subscription to be reported")
	}
	if len(bus.topics) != len(handlers)-1 {
		t.Fatalf("other topics should still subscribe, got %v", bus.topics)
	}
}
