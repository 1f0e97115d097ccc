package db

import (
	"time"

	"github.com/google/uuid"
)

// Account is a row of accounts.
type Account struct {
	ID        uuid.UUID `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Role      string    `db:"role"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`

	PasswordHash string `db:"password_hash"`
}

// Category is a row of categories.
type Category struct {
	ID        uuid.UUID `db:"id"`
	AdminID   uuid.UUID `db:"admin_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Item is a row of items.
type Item struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Price      int64     `db:"price"`
	SellerID   uuid.UUID `db:"seller_id"`
	CategoryID uuid.UUID `db:"category_id"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}
