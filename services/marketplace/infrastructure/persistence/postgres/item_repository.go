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

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db     *database.Database
	outbox outbox
}

// NewItemRepository returns an ItemRepository backed by the given pool and
// event bus. Item events feed the worker that maintains the item cache.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, outbox: newOutbox(bus)}
}

// Save persists a new Item and publishes an ItemCreatedEvent within the same transaction.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.New(tx).InsertItem(ctx, itemToRow(item)); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		evt := domainevents.ItemCreatedEvent{
			Envelope:     domainevents.NewEnvelope(item.CreatedAt),
			ItemSnapshot: itemSnapshot(item),
		}
		return r.outbox.publish(ctx, tx, domainevents.TopicItemCreated, evt.EventID, evt)
	})
}

// GetByID returns ErrItemNotFound if no item has id, whatever its state.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// ListActive returns listed items, newest first.
func (r *ItemRepository) ListActive(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, error) {
	limit, offset := limitOffset(opts)
	rows, err := db.New(r.db.DB()).ListActiveItems(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

// Update persists name, price and category and publishes ItemUpdatedEvent.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := db.New(tx).UpdateItem(ctx, db.UpdateItemParams{
			ID:         item.ID,
			Name:       item.Name.String(),
			Price:      item.Price.Int64(),
			CategoryID: item.CategoryID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrItemNotFound
			}
			return fmt.Errorf("update item: %w", err)
		}
		// The row may have been disabled since item was read.
		*item = *rowToItem(row)
		evt := domainevents.ItemUpdatedEvent{
			Envelope:     domainevents.NewEnvelope(time.Now()),
			ItemSnapshot: itemSnapshot(item),
		}
		return r.outbox.publish(ctx, tx, domainevents.TopicItemUpdated, evt.EventID, evt)
	})
}

func (r *ItemRepository) SetStatus(ctx context.Context, t repositories.Transition) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		q := db.New(tx)
		err := setActive(ctx, t, q.SetItemActive, func(ctx context.Context, id uuid.UUID) error {
			_, err := q.GetItemByID(ctx, id)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrItemNotFound
			}
			return err
		})
		if err != nil {
			return err
		}
		evt := statusChanged(t)
		return r.outbox.publish(ctx, tx, domainevents.TopicItemStatusChanged, evt.EventID, evt)
	})
}

// itemSnapshot is the event form of item.
func itemSnapshot(item *models.Item) domainevents.ItemSnapshot {
	return domainevents.ItemSnapshot{
		ItemID:     item.ID,
		SellerID:   item.SellerID,
		CategoryID: item.CategoryID,
		Name:       item.Name.String(),
		Price:      item.Price.Int64(),
		Active:     item.IsActive(),
		CreatedAt:  item.CreatedAt,
	}
}

func itemToRow(item *models.Item) db.Item {
	return db.Item{
		ID:         item.ID,
		Name:       item.Name.String(),
		Price:      item.Price.Int64(),
		SellerID:   item.SellerID,
		CategoryID: item.CategoryID,
		IsActive:   item.IsActive(),
		CreatedAt:  item.CreatedAt,
	}
}

func rowToItem(row db.Item) *models.Item {
	return &models.Item{
		ID:         row.ID,
		Name:       models.ItemName(row.Name),
		Price:      models.Price(row.Price),
		SellerID:   row.SellerID,
		CategoryID: row.CategoryID,
		Status:     lifecycle.StateOf(row.IsActive),
		CreatedAt:  row.CreatedAt,
	}
}
