package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const categoriesNameIdx = "categories_name_lower_idx"

// CategoryRepository implements repositories.CategoryRepository against PostgreSQL.
type CategoryRepository struct {
	db     *database.Database
	outbox outbox
}

func NewCategoryRepository(database *database.Database, bus *events.EventBus) *CategoryRepository {
	return &CategoryRepository{db: database, outbox: newOutbox(bus)}
}

// Save inserts c. A clash on the case-folded name index is ErrDuplicateName.
func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := db.New(tx).InsertCategory(ctx, db.Category{
			ID:        c.ID,
			AdminID:   c.AdminID,
			Name:      c.Name.String(),
			IsActive:  c.IsActive(),
			CreatedAt: c.CreatedAt,
		})
		if err != nil {
			if idx, ok := database.UniqueViolation(err); ok && idx == categoriesNameIdx {
				return domain.ErrDuplicateName
			}
			return fmt.Errorf("insert category: %w", err)
		}
		evt := domainevents.CategoryCreatedEvent{
			Envelope:   domainevents.NewEnvelope(c.CreatedAt),
			CategoryID: c.ID,
			AdminID:    c.AdminID,
			Name:       c.Name.String(),
		}
		return r.outbox.publish(ctx, tx, domainevents.TopicCategoryCreated, evt.EventID, evt)
	})
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row, err := db.New(r.db.DB()).GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return rowToCategory(row), nil
}

func (r *CategoryRepository) ListActive(ctx context.Context, opts repositories.QueryOpts) ([]*models.Category, error) {
	limit, offset := limitOffset(opts)
	rows, err := db.New(r.db.DB()).ListActiveCategories(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories := make([]*models.Category, len(rows))
	for i, row := range rows {
		categories[i] = rowToCategory(row)
	}
	return categories, nil
}

func (r *CategoryRepository) SetStatus(ctx context.Context, t repositories.Transition) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		q := db.New(tx)
		err := setActive(ctx, t, q.SetCategoryActive, func(ctx context.Context, id uuid.UUID) error {
			_, err := q.GetCategoryByID(ctx, id)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrCategoryNotFound
			}
			return err
		})
		if err != nil {
			return err
		}
		evt := statusChanged(t)
		return r.outbox.publish(ctx, tx, domainevents.TopicCategoryStatusChanged, evt.EventID, evt)
	})
}

func (r *CategoryRepository) NameTaken(ctx context.Context, key string) (bool, error) {
	taken, err := db.New(r.db.DB()).CategoryNameTaken(ctx, key)
	if err != nil {
		return false, fmt.Errorf("query category name: %w", err)
	}
	return taken, nil
}

func rowToCategory(row db.Category) *models.Category {
	return &models.Category{
		ID:        row.ID,
		AdminID:   row.AdminID,
		Name:      models.CategoryName(row.Name),
		Status:    lifecycle.StateOf(row.IsActive),
		CreatedAt: row.CreatedAt,
	}
}
