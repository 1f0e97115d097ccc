package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/auth"
	pkgcache "github.com/ghuser/bazaar/pkg/cache"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/internal/memstore"
)

// memCache is an in-memory ItemReadModel.
type memCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]pkgcache.CachedItem
	err     error
	deletes int
}

func newMemCache() *memCache {
	return &memCache{entries: map[uuid.UUID]pkgcache.CachedItem{}}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (*pkgcache.CachedItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	e, ok := c.entries[id]
	if !ok {
		return nil, pkgcache.ErrMiss
	}
	return &e, nil
}

func (c *memCache) Set(_ context.Context, item *pkgcache.CachedItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[item.ID] = *item
	return nil
}

func (c *memCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes++
	return nil
}

func (c *memCache) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *memCache) deleteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletes
}

const seedPassword = "correct horse"

var seedHash = sync.OnceValue(func() string {
	h, err := auth.HashPassword(seedPassword)
	if err != nil {
		panic(err)
	}
	return h
})

// seedAccount stores an account directly, bypassing the rule table. Its
// password is seedPassword.
func seedAccount(t *testing.T, store *memstore.Store, role models.Role, active bool) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "User",
		Email:     uuid.NewString()[:8] + "@example.com",
		Phone:     "9876543210",
		Role:      role,
		Status:    lifecycle.StateOf(active),
		CreatedAt: time.Now().UTC(),

		PasswordHash: seedHash(),
	}
	if err := store.Accounts().Save(context.Background(), a); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

func seedCategory(t *testing.T, store *memstore.Store, adminID uuid.UUID, name string, active bool) *models.Category {
	t.Helper()
	c := &models.Category{
		ID:        uuid.New(),
		AdminID:   adminID,
		Name:      models.CategoryName(name),
		Status:    lifecycle.StateOf(active),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Categories().Save(context.Background(), c); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func seedItem(t *testing.T, store *memstore.Store, sellerID, categoryID uuid.UUID) *models.Item {
	t.Helper()
	i := &models.Item{
		ID:         uuid.New(),
		Name:       "Brass lamp",
		Price:      129900,
		SellerID:   sellerID,
		CategoryID: categoryID,
		Status:     lifecycle.Active,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.Items().Save(context.Background(), i); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return i
}
