package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultItemTTL applies when NewItemCache is given a non-positive TTL.
	DefaultItemTTL = time.Hour

	itemKeyPrefix = "bazaar:item"
)

// ErrMiss is returned by ItemCache.Get when the item is not cached.
var ErrMiss = errors.New("cache: miss")

// CachedItem is the item read model stored as a Redis hash.
type CachedItem struct {
	ID         uuid.UUID
	SellerID   uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Price      int64
	Active     bool
	CreatedAt  time.Time
}

// ItemCache stores CachedItems under "bazaar:item:{id}".
type ItemCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewItemCache returns an ItemCache whose entries expire after ttl.
func NewItemCache(r *RedisClient, ttl time.Duration) *ItemCache {
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	return &ItemCache{client: r, ttl: ttl}
}

// Get returns ErrMiss when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, id uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrMiss
	}
	return decodeItem(vals)
}

// Set writes the item hash and its TTL in one pipeline.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := itemKey(item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, encodeItem(item)...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete evicts an item. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func itemKey(id uuid.UUID) string {
	return itemKeyPrefix + ":" + id.String()
}

func encodeItem(item *CachedItem) []any {
	return []any{
		"id", item.ID.String(),
		"seller_id", item.SellerID.String(),
		"category_id", item.CategoryID.String(),
		"name", item.Name,
		"price", strconv.FormatInt(item.Price, 10),
		"active", strconv.FormatBool(item.Active),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	var (
		item CachedItem
		err  error
	)
	if item.ID, err = uuid.Parse(vals["id"]); err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	if item.SellerID, err = uuid.Parse(vals["seller_id"]); err != nil {
		return nil, fmt.Errorf("cache parse seller_id: %w", err)
	}
	if item.CategoryID, err = uuid.Parse(vals["category_id"]); err != nil {
		return nil, fmt.Errorf("cache parse category_id: %w", err)
	}
	if item.Price, err = strconv.ParseInt(vals["price"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	if item.Active, err = strconv.ParseBool(vals["active"]); err != nil {
		return nil, fmt.Errorf("cache parse active: %w", err)
	}
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, vals["created_at"]); err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	item.Name = vals["name"]
	return &item, nil
}
