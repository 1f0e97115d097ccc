package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/bazaar/pkg/cache"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/policy"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/bazaar/services/marketplace/domain/services"
)

const cacheWriteTimeout = 2 * time.Second

// ItemReadModel is the item cache. *cache.ItemCache implements it.
type ItemReadModel interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemService orchestrates item mutations and serves item reads from the
// Redis read model when available.
type ItemService struct {
	*authorizer
	repo      repositories.ItemRepository
	validator *domainsvcs.Validator
	merger    *domainsvcs.Merger
	cache     ItemReadModel
}

// NewItemInput carries the raw fields of an item to list.
type NewItemInput struct {
	Name       string
	Price      int64
	CategoryID uuid.UUID
}

// Create lists a new item for the acting seller in an active category.
func (s *ItemService) Create(ctx context.Context, actorID uuid.UUID, in NewItemInput) (*models.Item, error) {
	item, err := models.NewItem(actorID, in.CategoryID, in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, policy.CreateItem, policy.Target{}); err != nil {
		return nil, err
	}
	if err := s.validator.CheckActiveCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.log.InfoContext(ctx, "item created", "item_id", item.ID, "seller_id", item.SellerID)
	return item, nil
}

// Get retrieves an Item using a read-through cache:
//  1. Check Redis first.
//  2. On a miss or cache error, query Postgres.
//  3. Warm the cache in the background with the Postgres result.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			s.metrics.ItemCacheRead(ctx, "hit")
			return fromCached(cached), nil
		case errors.Is(err, pkgcache.ErrMiss):
			s.metrics.ItemCacheRead(ctx, "miss")
		default:
			s.metrics.ItemCacheRead(ctx, "error")
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		go func() {
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
			defer cancel()
			if err := s.cache.Set(wctx, ToCached(item)); err != nil {
				s.log.WarnContext(wctx, "item cache warm failed", "item_id", item.ID, "error", err)
			}
		}()
	}
	return item, nil
}

// List returns active items.
func (s *ItemService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, error) {
	items, err := s.repo.ListActive(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Update applies p for the owning seller or an admin.
func (s *ItemService) Update(ctx context.Context, actorID, id uuid.UUID, p models.ItemPatch) (*models.Item, error) {
	item, actor, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, policy.UpdateItem, policy.ItemTarget(item)); err != nil {
		return nil, err
	}

	merged, err := s.merger.Item(ctx, item, p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.evict(ctx, id)
	s.log.InfoContext(ctx, "item updated", "item_id", id)
	return merged, nil
}

func (s *ItemService) Disable(ctx context.Context, actorID, id uuid.UUID) (*models.Item, error) {
	return s.transition(ctx, actorID, id, policy.DisableItem, lifecycle.Disable)
}

func (s *ItemService) Enable(ctx context.Context, actorID, id uuid.UUID) (*models.Item, error) {
	return s.transition(ctx, actorID, id, policy.EnableItem, lifecycle.Enable)
}

func (s *ItemService) transition(ctx context.Context, actorID, id uuid.UUID, action policy.Action, ev lifecycle.Event) (*models.Item, error) {
	item, actor, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	state, err := s.run(ctx, transition{
		entity:    "item",
		id:        id,
		actorID:   actor.ID,
		current:   item.Status,
		event:     ev,
		guard:     s.guard(ctx, actor, action, policy.ItemTarget(item)),
		setStatus: s.repo.SetStatus,
		reload: func(ctx context.Context) (lifecycle.State, error) {
			fresh, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return fresh.Status, nil
		},
	})
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	updated := *item
	updated.Status = state
	return &updated, nil
}

// load fetches the item, then the actor; both must exist.
func (s *ItemService) load(ctx context.Context, actorID, id uuid.UUID) (*models.Item, *policy.Actor, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	return item, actor, nil
}

// evict drops a cached item after a write. The worker rebuilds it from the
// outbox event; a failed eviction only delays that.
func (s *ItemService) evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache evict failed", "item_id", id, "error", err)
	}
}

// ToCached converts an item to its read-model form.
func ToCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:         item.ID,
		SellerID:   item.SellerID,
		CategoryID: item.CategoryID,
		Name:       item.Name.String(),
		Price:      item.Price.Int64(),
		Active:     item.IsActive(),
		CreatedAt:  item.CreatedAt,
	}
}

func fromCached(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:         c.ID,
		Name:       models.ItemName(c.Name),
		Price:      models.Price(c.Price),
		SellerID:   c.SellerID,
		CategoryID: c.CategoryID,
		Status:     lifecycle.StateOf(c.Active),
		CreatedAt:  c.CreatedAt,
	}
}
