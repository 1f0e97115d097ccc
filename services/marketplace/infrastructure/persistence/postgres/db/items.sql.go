package db

import (
	"context"

	"github.com/google/uuid"
)

const itemColumns = `id, name, price, seller_id, category_id, is_active, created_at`

const insertItem = `
INSERT INTO items (id, name, price, seller_id, category_id, is_active, created_at)
VALUES (:id, :name, :price, :seller_id, :category_id, :is_active, :created_at)`

func (q *Queries) InsertItem(ctx context.Context, arg Item) error {
	query, args, err := q.bindNamed(insertItem, arg)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, query, args...)
	return err
}

const getItemByID = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

func (q *Queries) GetItemByID(ctx context.Context, id uuid.UUID) (Item, error) {
	var i Item
	err := q.get(ctx, &i, getItemByID, id)
	return i, err
}

const listActiveItems = `SELECT ` + itemColumns + ` FROM items
WHERE is_active
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

func (q *Queries) ListActiveItems(ctx context.Context, limit, offset int) ([]Item, error) {
	var rows []Item
	err := q.selectAll(ctx, &rows, listActiveItems, limitArg(limit), offset)
	return rows, err
}

const updateItem = `
UPDATE items SET name = $2, price = $3, category_id = $4
WHERE id = $1
RETURNING ` + itemColumns

type UpdateItemParams struct {
	ID         uuid.UUID
	Name       string
	Price      int64
	CategoryID uuid.UUID
}

// UpdateItem returns the committed row, or sql.ErrNoRows if id is unknown.
func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (Item, error) {
	var i Item
	err := q.get(ctx, &i, updateItem, arg.ID, arg.Name, arg.Price, arg.CategoryID)
	return i, err
}

const setItemActive = `
UPDATE items SET is_active = $3
WHERE id = $1 AND is_active = $2`

func (q *Queries) SetItemActive(ctx context.Context, id uuid.UUID, from, to bool) (bool, error) {
	return q.execOne(ctx, setItemActive, id, from, to)
}
