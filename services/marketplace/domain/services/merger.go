package services

import (
	"context"

	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/identity"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// MergeAccount applies the present fields of p to a copy of a. Names are
// trimmed, email and phone canonicalized, and every present field validated.
// The input snapshot is never modified. An empty patch fails with
// ErrEmptyUpdate.
func MergeAccount(a *models.Account, p models.AccountPatch) (*models.Account, error) {
	if p.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	merged := *a

	if v, ok := p.FirstName.Get(); ok {
		n, err := models.NewPersonName(v)
		if err != nil {
			return nil, err
		}
		merged.FirstName = n
	}
	if v, ok := p.LastName.Get(); ok {
		n, err := models.NewPersonName(v)
		if err != nil {
			return nil, err
		}
		merged.LastName = n
	}
	if v, ok := p.Phone.Get(); ok {
		phone, err := identity.NormalizePhone(v)
		if err != nil {
			return nil, err
		}
		merged.Phone = phone
	}
	if v, ok := p.Email.Get(); ok {
		email, err := models.CanonicalEmail(v)
		if err != nil {
			return nil, err
		}
		merged.Email = email
	}

	return &merged, nil
}

// MergeItem applies the present fields of p to a copy of item.
// Category activeness is not checked here; see Merger.Item.
func MergeItem(item *models.Item, p models.ItemPatch) (*models.Item, error) {
	if p.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	merged := *item

	if v, ok := p.Name.Get(); ok {
		n, err := models.NewItemName(v)
		if err != nil {
			return nil, err
		}
		merged.Name = n
	}
	if v, ok := p.Price.Get(); ok {
		price, err := models.NewPrice(v)
		if err != nil {
			return nil, err
		}
		merged.Price = price
	}
	if v, ok := p.CategoryID.Get(); ok {
		merged.CategoryID = v
	}

	return &merged, nil
}

// Merger combines the pure merge functions with the checks a changed field
// re-triggers: a present email is re-checked for uniqueness excluding the
// account itself, a present category for activeness.
type Merger struct {
	validator *Validator
}

// NewMerger returns a Merger using v for re-validation.
func NewMerger(v *Validator) *Merger {
	return &Merger{validator: v}
}

// Account merges p into a and re-validates the email when present.
func (m *Merger) Account(ctx context.Context, a *models.Account, p models.AccountPatch) (*models.Account, error) {
	merged, err := MergeAccount(a, p)
	if err != nil {
		return nil, err
	}
	if p.Email.Present() {
		if err := m.validator.CheckUniqueEmail(ctx, merged.Email, a.ID); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Item merges p into item and re-validates the category when present.
func (m *Merger) Item(ctx context.Context, item *models.Item, p models.ItemPatch) (*models.Item, error) {
	merged, err := MergeItem(item, p)
	if err != nil {
		return nil, err
	}
	if p.CategoryID.Present() {
		if err := m.validator.CheckActiveCategory(ctx, merged.CategoryID); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
