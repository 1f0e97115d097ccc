// Package services contains domain services for the marketplace bounded
// context: cross-entity uniqueness and reference checks, and partial-update
// merging. They operate on domain types and read persisted state only through
// the narrow interfaces declared here.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// EmailIndex is the read view of account emails.
type EmailIndex interface {
	EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error)
}

// CategoryIndex is the read view of categories.
type CategoryIndex interface {
	NameTaken(ctx context.Context, key string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Validator performs uniqueness and referential checks against current
// persisted state. The checks are not atomic with the later write; unique
// indexes in storage remain the authoritative guarantee and the repository
// maps their violations to the same Conflict errors returned here.
type Validator struct {
	emails     EmailIndex
	categories CategoryIndex
}

// NewValidator returns a Validator reading through the given indexes.
func NewValidator(emails EmailIndex, categories CategoryIndex) *Validator {
	return &Validator{emails: emails, categories: categories}
}

// CheckUniqueEmail returns ErrDuplicateEmail when candidate (already
// canonical) belongs to an account other than excluding. Pass uuid.Nil to
// check against every account.
func (v *Validator) CheckUniqueEmail(ctx context.Context, candidate string, excluding uuid.UUID) error {
	taken, err := v.emails.EmailTaken(ctx, candidate, excluding)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ErrDuplicateEmail
	}
	return nil
}

// CheckUniqueCategoryName returns ErrDuplicateName when a category with the
// same case-folded name exists.
func (v *Validator) CheckUniqueCategoryName(ctx context.Context, candidate models.CategoryName) error {
	taken, err := v.categories.NameTaken(ctx, candidate.Key())
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return domain.ErrDuplicateName
	}
	return nil
}

// CheckActiveCategory returns ErrCategoryNotFound when the category does not
// exist or is currently inactive.
func (v *Validator) CheckActiveCategory(ctx context.Context, id uuid.UUID) error {
	c, err := v.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("check category: %w", err)
	}
	if !c.IsActive() {
		return domain.ErrCategoryNotFound
	}
	return nil
}
