package db

import (
	"context"

	"github.com/google/uuid"
)

const accountColumns = `id, first_name, last_name, email, phone, role, is_active, created_at, password_hash`

const insertAccount = `
INSERT INTO accounts (id, first_name, last_name, email, phone, role, is_active, created_at, password_hash)
VALUES (:id, :first_name, :last_name, :email, :phone, :role, :is_active, :created_at, :password_hash)`

func (q *Queries) InsertAccount(ctx context.Context, arg Account) error {
	query, args, err := q.bindNamed(insertAccount, arg)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, query, args...)
	return err
}

const getAccountByID = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

func (q *Queries) GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error) {
	var a Account
	err := q.get(ctx, &a, getAccountByID, id)
	return a, err
}

const getAccountByEmail = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := q.get(ctx, &a, getAccountByEmail, email)
	return a, err
}

const listAccounts = `SELECT ` + accountColumns + ` FROM accounts
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

func (q *Queries) ListAccounts(ctx context.Context, limit, offset int) ([]Account, error) {
	var rows []Account
	err := q.selectAll(ctx, &rows, listAccounts, limitArg(limit), offset)
	return rows, err
}

const updateAccountProfile = `
UPDATE accounts SET first_name = $2, last_name = $3, email = $4, phone = $5
WHERE id = $1
RETURNING ` + accountColumns

type UpdateAccountProfileParams struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdateAccountProfile returns the committed row, or sql.ErrNoRows if id is
// unknown.
func (q *Queries) UpdateAccountProfile(ctx context.Context, arg UpdateAccountProfileParams) (Account, error) {
	var a Account
	err := q.get(ctx, &a, updateAccountProfile, arg.ID, arg.FirstName, arg.LastName, arg.Email, arg.Phone)
	return a, err
}

const setAccountActive = `
UPDATE accounts SET is_active = $3
WHERE id = $1 AND is_active = $2`

// SetAccountActive flips is_active only if it currently equals from.
func (q *Queries) SetAccountActive(ctx context.Context, id uuid.UUID, from, to bool) (bool, error) {
	return q.execOne(ctx, setAccountActive, id, from, to)
}

const emailTaken = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)`

func (q *Queries) EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error) {
	var taken bool
	err := q.get(ctx, &taken, emailTaken, email, excluding)
	return taken, err
}

func (q *Queries) bindNamed(query string, arg any) (string, []any, error) {
	return q.db.BindNamed(query, arg)
}
