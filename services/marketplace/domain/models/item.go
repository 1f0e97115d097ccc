package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
)

// Item is a sellable good listed by a seller under a category.
// SellerID never changes after creation.
type Item struct {
	ID         uuid.UUID
	Name       ItemName
	Price      Price
	SellerID   uuid.UUID
	CategoryID uuid.UUID
	Status     lifecycle.State
	CreatedAt  time.Time
}

// NewItem validates the raw fields and returns an active Item with a
// generated ID. Seller role and category activeness are checked by the caller.
func NewItem(sellerID, categoryID uuid.UUID, name string, price int64) (*Item, error) {
	itemName, err := NewItemName(name)
	if err != nil {
		return nil, err
	}
	p, err := NewPrice(price)
	if err != nil {
		return nil, err
	}

	return &Item{
		ID:         uuid.New(),
		Name:       itemName,
		Price:      p,
		SellerID:   sellerID,
		CategoryID: categoryID,
		Status:     lifecycle.Active,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsActive reports whether the item is listed.
func (i *Item) IsActive() bool { return i.Status.IsActive() }
