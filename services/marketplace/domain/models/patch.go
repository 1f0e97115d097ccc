package models

import (
	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/optional"
)

// AccountPatch is a partial update to an Account. Absent fields are left
// unchanged; present fields are applied even when empty (and then validated).
type AccountPatch struct {
	FirstName optional.Value[string]
	LastName  optional.Value[string]
	Phone     optional.Value[string]
	Email     optional.Value[string]
}

// IsEmpty reports whether no field is present.
func (p AccountPatch) IsEmpty() bool {
	return !p.FirstName.Present() && !p.LastName.Present() &&
		!p.Phone.Present() && !p.Email.Present()
}

// ItemPatch is a partial update to an Item. Seller cannot be patched.
type ItemPatch struct {
	Name       optional.Value[string]
	Price      optional.Value[int64]
	CategoryID optional.Value[uuid.UUID]
}

// IsEmpty reports whether no field is present.
func (p ItemPatch) IsEmpty() bool {
	return !p.Name.Present() && !p.Price.Present() && !p.CategoryID.Present()
}
