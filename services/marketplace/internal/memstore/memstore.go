// Package memstore implements the marketplace repositories in process memory
// for tests. It mirrors the Postgres semantics that callers depend on:
// unique canonical emails, case-insensitive category names, compare-and-swap
// status changes and updates that never touch the stored status. It publishes
// no events and is not wired into any binary.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
)

// Store holds every entity behind one lock.
type Store struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]models.Account
	items      map[uuid.UUID]models.Item
	categories map[uuid.UUID]models.Category

	// BeforeWrite, when set, runs at the start of every Update and
	// SetStatus call without the lock held. Tests use it to interleave a
	// concurrent writer.
	BeforeWrite func(id uuid.UUID)
}

func NewStore() *Store {
	return &Store{
		accounts:   map[uuid.UUID]models.Account{},
		items:      map[uuid.UUID]models.Item{},
		categories: map[uuid.UUID]models.Category{},
	}
}

func (s *Store) Accounts() *AccountRepository    { return &AccountRepository{s} }
func (s *Store) Items() *ItemRepository          { return &ItemRepository{s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }

// Len returns the number of stored accounts, items and categories.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts) + len(s.items) + len(s.categories)
}

func (s *Store) beforeWrite(id uuid.UUID) {
	if hook := s.BeforeWrite; hook != nil {
		hook(id)
	}
}

func page[T any](all []T, opts repositories.QueryOpts) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(all) {
			return nil
		}
		all = all[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all
}

// AccountRepository implements repositories.AccountRepository.
type AccountRepository struct{ s *Store }

func (r *AccountRepository) Save(_ context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.accounts {
		if other.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// List returns accounts newest first.
func (r *AccountRepository) List(_ context.Context, opts repositories.QueryOpts) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, &a)
	}
	slices.SortFunc(out, func(a, b *models.Account) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, opts), nil
}

// Update writes the profile fields only and refreshes a with the stored row.
func (r *AccountRepository) Update(_ context.Context, a *models.Account) error {
	r.s.beforeWrite(a.ID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.accounts[a.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for id, other := range r.s.accounts {
		if id != a.ID && other.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	stored.FirstName, stored.LastName = a.FirstName, a.LastName
	stored.Email, stored.Phone = a.Email, a.Phone
	r.s.accounts[a.ID] = stored
	*a = stored
	return nil
}

func (r *AccountRepository) SetStatus(_ context.Context, t repositories.Transition) error {
	r.s.beforeWrite(t.ID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[t.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.Status != t.From {
		return repositories.ErrStaleState
	}
	a.Status = t.To
	r.s.accounts[t.ID] = a
	return nil
}

func (r *AccountRepository) EmailTaken(_ context.Context, email string, excluding uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.accounts {
		if a.Email == email && id != excluding {
			return true, nil
		}
	}
	return false, nil
}

// ItemRepository implements repositories.ItemRepository.
type ItemRepository struct{ s *Store }

func (r *ItemRepository) Save(_ context.Context, item *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &i, nil
}

func (r *ItemRepository) ListActive(_ context.Context, opts repositories.QueryOpts) ([]*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Item
	for _, i := range r.s.items {
		if i.IsActive() {
			out = append(out, &i)
		}
	}
	slices.SortFunc(out, func(a, b *models.Item) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, opts), nil
}

// Update writes name, price and category only and refreshes item with the
// stored row.
func (r *ItemRepository) Update(_ context.Context, item *models.Item) error {
	r.s.beforeWrite(item.ID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	stored.Name, stored.Price, stored.CategoryID = item.Name, item.Price, item.CategoryID
	r.s.items[item.ID] = stored
	*item = stored
	return nil
}

func (r *ItemRepository) SetStatus(_ context.Context, t repositories.Transition) error {
	r.s.beforeWrite(t.ID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[t.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if i.Status != t.From {
		return repositories.ErrStaleState
	}
	i.Status = t.To
	r.s.items[t.ID] = i
	return nil
}

// CategoryRepository implements repositories.CategoryRepository.
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Save(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if strings.EqualFold(other.Name.String(), c.Name.String()) {
			return domain.ErrDuplicateName
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) ListActive(_ context.Context, opts repositories.QueryOpts) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Category
	for _, c := range r.s.categories {
		if c.IsActive() {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Category) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, opts), nil
}

func (r *CategoryRepository) SetStatus(_ context.Context, t repositories.Transition) error {
	r.s.beforeWrite(t.ID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[t.ID]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if c.Status != t.From {
		return repositories.ErrStaleState
	}
	c.Status = t.To
	r.s.categories[t.ID] = c
	return nil
}

func (r *CategoryRepository) NameTaken(_ context.Context, key string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if strings.ToLower(c.Name.String()) == key {
			return true, nil
		}
	}
	return false, nil
}

var (
	_ repositories.AccountRepository  = (*AccountRepository)(nil)
	_ repositories.ItemRepository     = (*ItemRepository)(nil)
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
)
