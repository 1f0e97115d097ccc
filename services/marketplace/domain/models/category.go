package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
)

// Category classifies items. Created by an admin; names are unique.
type Category struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	Name      CategoryName
	Status    lifecycle.State
	CreatedAt time.Time
}

// NewCategory validates name and returns an active Category.
func NewCategory(adminID uuid.UUID, name string) (*Category, error) {
	n, err := NewCategoryName(name)
	if err != nil {
		return nil, err
	}
	return &Category{
		ID:        uuid.New(),
		AdminID:   adminID,
		Name:      n,
		Status:    lifecycle.Active,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsActive reports whether items may currently reference this category.
func (c *Category) IsActive() bool { return c.Status.IsActive() }
