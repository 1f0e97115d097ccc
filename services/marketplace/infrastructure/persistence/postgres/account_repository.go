package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ghuser/bazaar/pkg/database"
	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/services/marketplace/domain"
	domainevents "github.com/ghuser/bazaar/services/marketplace/domain/events"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	"github.com/ghuser/bazaar/services/marketplace/infrastructure/persistence/postgres/db"
)

const accountsEmailKey = "accounts_email_key"

// AccountRepository implements repositories.AccountRepository against PostgreSQL.
type AccountRepository struct {
	db     *database.Database
	outbox outbox
}

// NewAccountRepository returns an AccountRepository. bus may be nil, in which
// case no events are written.
func NewAccountRepository(database *database.Database, bus *events.EventBus) *AccountRepository {
	return &AccountRepository{db: database, outbox: newOutbox(bus)}
}

// Save inserts a and publishes AccountCreatedEvent in the same transaction.
func (r *AccountRepository) Save(ctx context.Context, a *models.Account) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.New(tx).InsertAccount(ctx, accountToRow(a)); err != nil {
			return mapAccountWriteError("insert account", err)
		}
		evt := domainevents.AccountCreatedEvent{
			Envelope:        domainevents.NewEnvelope(a.CreatedAt),
			AccountSnapshot: accountSnapshot(a),
		}
		return r.outbox.publish(ctx, tx, domainevents.TopicAccountCreated, evt.EventID, evt)
	})
}

// GetByID returns ErrAccountNotFound if no account has id.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row, err := db.New(r.db.DB()).GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return rowToAccount(row)
}

// GetByEmail looks up an account by canonical email. Returns
// ErrAccountNotFound if none matches.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row, err := db.New(r.db.DB()).GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account by email: %w", err)
	}
	return rowToAccount(row)
}

// List returns accounts newest first.
func (r *AccountRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Account, error) {
	limit, offset := limitOffset(opts)
	rows, err := db.New(r.db.DB()).ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	accounts := make([]*models.Account, 0, len(rows))
	for _, row := range rows {
		a, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// Update persists profile fields and publishes AccountUpdatedEvent.
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := db.New(tx).UpdateAccountProfile(ctx, db.UpdateAccountProfileParams{
			ID:        a.ID,
			FirstName: a.FirstName.String(),
			LastName:  a.LastName.String(),
			Email:     a.Email,
			Phone:     a.Phone,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			return mapAccountWriteError("update account", err)
		}
		committed, err := rowToAccount(row)
		if err != nil {
			return err
		}
		*a = *committed
		evt := domainevents.AccountUpdatedEvent{
			Envelope:        domainevents.NewEnvelope(time.Now()),
			AccountSnapshot: accountSnapshot(a),
		}
		return r.outbox.publish(ctx, tx, domainevents.TopicAccountUpdated, evt.EventID, evt)
	})
}

// SetStatus flips is_active with a compare-and-swap.
func (r *AccountRepository) SetStatus(ctx context.Context, t repositories.Transition) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		q := db.New(tx)
		err := setActive(ctx, t, q.SetAccountActive, func(ctx context.Context, id uuid.UUID) error {
			_, err := q.GetAccountByID(ctx, id)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			return err
		})
		if err != nil {
			return err
		}
		evt := statusChanged(t)
		return r.outbox.publish(ctx, tx, domainevents.TopicAccountStatusChanged, evt.EventID, evt)
	})
}

// EmailTaken reports whether an account other than excluding uses email.
func (r *AccountRepository) EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error) {
	taken, err := db.New(r.db.DB()).EmailTaken(ctx, email, excluding)
	if err != nil {
		return false, fmt.Errorf("query email: %w", err)
	}
	return taken, nil
}

func mapAccountWriteError(op string, err error) error {
	if c, ok := database.UniqueViolation(err); ok && c == accountsEmailKey {
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

func accountToRow(a *models.Account) db.Account {
	return db.Account{
		ID:        a.ID,
		FirstName: a.FirstName.String(),
		LastName:  a.LastName.String(),
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role.String(),
		IsActive:  a.IsActive(),
		CreatedAt: a.CreatedAt,

		PasswordHash: a.PasswordHash,
	}
}

func rowToAccount(row db.Account) (*models.Account, error) {
	role, err := models.ParseRole(row.Role)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", row.ID, err)
	}
	return &models.Account{
		ID:        row.ID,
		FirstName: models.PersonName(row.FirstName),
		LastName:  models.PersonName(row.LastName),
		Email:     row.Email,
		Phone:     row.Phone,
		Role:      role,
		Status:    lifecycle.StateOf(row.IsActive),
		CreatedAt: row.CreatedAt,

		PasswordHash: row.PasswordHash,
	}, nil
}

func accountSnapshot(a *models.Account) domainevents.AccountSnapshot {
	return domainevents.AccountSnapshot{
		AccountID: a.ID,
		FirstName: a.FirstName.String(),
		LastName:  a.LastName.String(),
		Email:     a.Email,
		Role:      a.Role.String(),
		Active:    a.IsActive(),
	}
}
