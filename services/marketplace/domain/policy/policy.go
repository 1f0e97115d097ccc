// Package policy is the marketplace authorization rule table. It decides,
// from the actor's role and the ownership facts of the target, whether an
// action is allowed. It performs no lookups: existence of the actor and target
// is established by the caller first.
package policy

import (
	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// Action is a mutation subject to authorization.
type Action uint8

const (
	CreateAccount Action = iota + 1
	UpdateAccount
	DisableAccount
	EnableAccount
	CreateItem
	UpdateItem
	DisableItem
	EnableItem
	CreateCategory
	DisableCategory
	EnableCategory
)

var actionNames = map[Action]string{
	CreateAccount:   "account.create",
	UpdateAccount:   "account.update",
	DisableAccount:  "account.disable",
	EnableAccount:   "account.enable",
	CreateItem:      "item.create",
	UpdateItem:      "item.update",
	DisableItem:     "item.disable",
	EnableItem:      "item.enable",
	CreateCategory:  "category.create",
	DisableCategory: "category.disable",
	EnableCategory:  "category.enable",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Actor is the account performing a request. A nil *Actor means the request
// carries no known account.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// ActorOf returns the Actor for a, or nil when a is nil.
func ActorOf(a *models.Account) *Actor {
	if a == nil {
		return nil
	}
	return &Actor{ID: a.ID, Role: a.Role}
}

// Target carries the facts about the entity being acted on that the rule
// table inspects.
type Target struct {
	ID      uuid.UUID
	OwnerID uuid.UUID   // seller of an item, creating admin of a category
	Role    models.Role // role of a target account, or the requested role on creation
}

// AccountTarget describes an existing account.
func AccountTarget(a *models.Account) Target {
	return Target{ID: a.ID, OwnerID: a.ID, Role: a.Role}
}

// NewAccountTarget describes an account about to be created with role.
func NewAccountTarget(role models.Role) Target {
	return Target{Role: role}
}

// ItemTarget describes an item; its owner is the seller.
func ItemTarget(i *models.Item) Target {
	return Target{ID: i.ID, OwnerID: i.SellerID}
}

// CategoryTarget describes a category; its owner is the creating admin.
func CategoryTarget(c *models.Category) Target {
	return Target{ID: c.ID, OwnerID: c.AdminID}
}

const reasonNotAllowed = "not allowed"

// Authorize returns nil when actor may perform action on target, otherwise an
// error wrapping domain.ErrForbidden whose message is the denial reason.
func Authorize(actor *Actor, action Action, target Target) error {
	switch action {
	case CreateAccount:
		if target.Role == models.RoleAdmin {
			return domain.ErrAdminSelfCreate
		}
		return nil

	case UpdateAccount:
		if !isSelf(actor, target) {
			return domain.Forbidden(reasonNotAllowed)
		}
		return nil

	case DisableAccount:
		if !isSelf(actor, target) && !hasRole(actor, models.RoleAdmin) {
			return domain.Forbidden(reasonNotAllowed)
		}
		if target.Role == models.RoleAdmin {
			return domain.ErrAdminImmune
		}
		return nil

	case EnableAccount, DisableCategory, EnableCategory:
		return requireRole(actor, models.RoleAdmin, "only admin allowed")

	case CreateItem:
		return requireRole(actor, models.RoleSeller, "only seller can add items")

	case UpdateItem, DisableItem, EnableItem:
		if !isOwner(actor, target) && !hasRole(actor, models.RoleAdmin) {
			return domain.Forbidden(reasonNotAllowed)
		}
		return nil

	case CreateCategory:
		return requireRole(actor, models.RoleAdmin, "only admin can create category")

	default:
		return domain.Forbidden("unknown action")
	}
}

// IsRoleGated reports whether action is decided by the actor's role alone.
// For these actions a missing actor is a denial rather than NotFound, since
// the rule table is what reveals the actor as inadequate.
func IsRoleGated(action Action) bool {
	switch action {
	case EnableAccount, CreateItem, CreateCategory, DisableCategory, EnableCategory:
		return true
	default:
		return false
	}
}

func requireRole(actor *Actor, role models.Role, reason string) error {
	if !hasRole(actor, role) {
		return domain.Forbidden(reason)
	}
	return nil
}

func hasRole(actor *Actor, role models.Role) bool {
	return actor != nil && actor.Role == role
}

func isSelf(actor *Actor, target Target) bool {
	return actor != nil && actor.ID != uuid.Nil && actor.ID == target.ID
}

func isOwner(actor *Actor, target Target) bool {
	return actor != nil && actor.ID != uuid.Nil && actor.ID == target.OwnerID
}
