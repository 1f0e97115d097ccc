// Package projections consumes marketplace events to maintain read models.
package projections

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgcache "github.com/ghuser/bazaar/pkg/cache"
	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/pkg/logger"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
	domainevents "github.com/ghuser/bazaar/services/marketplace/domain/events"
)

// Subscriber is the part of the event bus projections need.
// *events.EventBus implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler events.Handler) (<-chan error, error)
}

// ItemCache keeps the Redis item read model in step with item events.
// Handlers are idempotent: a snapshot overwrites the whole entry and an
// eviction of a missing key is a no-op.
type ItemCache struct {
	cache appsvcs.ItemReadModel
	log   logger.Logger
}

func NewItemCache(cache appsvcs.ItemReadModel, log logger.Logger) *ItemCache {
	return &ItemCache{cache: cache, log: log}
}

// Handlers maps each consumed topic to its handler.
func (p *ItemCache) Handlers() map[string]events.Handler {
	return map[string]events.Handler{
		domainevents.TopicItemCreated:       p.handleCreated,
		domainevents.TopicItemUpdated:       p.handleUpdated,
		domainevents.TopicItemStatusChanged: p.handleStatusChanged,
	}
}

func (p *ItemCache) handleCreated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.ItemCreatedEvent](msg)
	if err != nil {
		return err
	}
	return p.store(ctx, evt.ItemSnapshot)
}

func (p *ItemCache) handleUpdated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.ItemUpdatedEvent](msg)
	if err != nil {
		return err
	}
	return p.store(ctx, evt.ItemSnapshot)
}

// handleStatusChanged evicts the entry; the next read re-warms it with the
// committed state.
func (p *ItemCache) handleStatusChanged(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.StatusChangedEvent](msg)
	if err != nil {
		return err
	}
	if err := p.cache.Delete(ctx, evt.EntityID); err != nil {
		return err
	}
	p.log.InfoContext(ctx, "item cache evicted", "item_id", evt.EntityID, "active", evt.Active)
	return nil
}

func (p *ItemCache) store(ctx context.Context, s domainevents.ItemSnapshot) error {
	err := p.cache.Set(ctx, &pkgcache.CachedItem{
		ID:         s.ItemID,
		SellerID:   s.SellerID,
		CategoryID: s.CategoryID,
		Name:       s.Name,
		Price:      s.Price,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
	})
	if err != nil {
		return err
	}
	p.log.InfoContext(ctx, "item cache refreshed", "item_id", s.ItemID)
	return nil
}

// Register subscribes every handler and drains subscriber errors into the log.
func Register(ctx context.Context, bus Subscriber, handlers map[string]events.Handler, log logger.Logger) error {
	var errs []error
	for topic, h := range handlers {
		errCh, err := bus.Subscribe(ctx, topic, h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}
	return errors.Join(errs...)
}
