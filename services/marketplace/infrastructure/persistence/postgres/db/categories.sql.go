package db

import (
	"context"

	"github.com/google/uuid"
)

const categoryColumns = `id, admin_id, name, is_active, created_at`

const insertCategory = `
INSERT INTO categories (id, admin_id, name, is_active, created_at)
VALUES (:id, :admin_id, :name, :is_active, :created_at)`

func (q *Queries) InsertCategory(ctx context.Context, arg Category) error {
	query, args, err := q.bindNamed(insertCategory, arg)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, query, args...)
	return err
}

const getCategoryByID = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

func (q *Queries) GetCategoryByID(ctx context.Context, id uuid.UUID) (Category, error) {
	var c Category
	err := q.get(ctx, &c, getCategoryByID, id)
	return c, err
}

const listActiveCategories = `SELECT ` + categoryColumns + ` FROM categories
WHERE is_active
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

func (q *Queries) ListActiveCategories(ctx context.Context, limit, offset int) ([]Category, error) {
	var rows []Category
	err := q.selectAll(ctx, &rows, listActiveCategories, limitArg(limit), offset)
	return rows, err
}

const setCategoryActive = `
UPDATE categories SET is_active = $3
WHERE id = $1 AND is_active = $2`

func (q *Queries) SetCategoryActive(ctx context.Context, id uuid.UUID, from, to bool) (bool, error) {
	return q.execOne(ctx, setCategoryActive, id, from, to)
}

const categoryNameTaken = `
SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = $1)`

// CategoryNameTaken expects key already lowercased.
func (q *Queries) CategoryNameTaken(ctx context.Context, key string) (bool, error) {
	var taken bool
	err := q.get(ctx, &taken, categoryNameTaken, key)
	return taken, err
}
