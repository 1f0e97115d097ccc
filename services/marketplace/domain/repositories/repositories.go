package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// Transition is a lifecycle change requested by ActorID.
type Transition struct {
	ID      uuid.UUID
	ActorID uuid.UUID
	From    lifecycle.State
	To      lifecycle.State
}

// ErrStaleState is returned by SetStatus when the row's current state no
// longer matches the expected one: another transition won the race.
var ErrStaleState = errors.New("lifecycle state changed concurrently")

// QueryOpts contains pagination parameters for list queries.
// A zero Limit means no limit.
type QueryOpts struct {
	Limit  int
	Offset int
}

// AccountRepository is the persistence interface for accounts.
// The domain layer owns this interface; infrastructure implements it.
type AccountRepository interface {
	// Save inserts a new account. Returns ErrDuplicateEmail when the email
	// unique constraint is violated.
	Save(ctx context.Context, a *models.Account) error

	// GetByID returns ErrAccountNotFound if no account has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// GetByEmail looks up by canonical email. Returns ErrAccountNotFound if
	// no account uses it.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	List(ctx context.Context, opts QueryOpts) ([]*models.Account, error)

	// Update persists name, email and phone changes and refreshes a with
	// the committed row, including a status changed concurrently.
	// Returns ErrDuplicateEmail or ErrAccountNotFound.
	Update(ctx context.Context, a *models.Account) error

	// SetStatus moves the account from t.From to t.To as a single
	// compare-and-swap. Returns ErrStaleState if the stored state is not
	// t.From, or ErrAccountNotFound if the row is gone.
	SetStatus(ctx context.Context, t Transition) error

	// EmailTaken reports whether another account (id != excluding) uses email.
	EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error)
}

// ItemRepository is the persistence interface for items.
type ItemRepository interface {
	Save(ctx context.Context, item *models.Item) error

	// GetByID returns ErrItemNotFound if no item has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// ListActive returns listed items, newest first.
	ListActive(ctx context.Context, opts QueryOpts) ([]*models.Item, error)

	// Update persists name, price and category changes and refreshes item
	// with the committed row. It never writes the status.
	Update(ctx context.Context, item *models.Item) error

	SetStatus(ctx context.Context, t Transition) error
}

// CategoryRepository is the persistence interface for categories.
type CategoryRepository interface {
	// Save inserts a category. Returns ErrDuplicateName on a name clash.
	Save(ctx context.Context, c *models.Category) error

	// GetByID returns ErrCategoryNotFound if no category has the id,
	// regardless of its state.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)

	ListActive(ctx context.Context, opts QueryOpts) ([]*models.Category, error)

	SetStatus(ctx context.Context, t Transition) error

	// NameTaken reports whether a category with the case-folded key exists.
	NameTaken(ctx context.Context, key string) (bool, error)
}
