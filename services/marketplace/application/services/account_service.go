package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/auth"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/policy"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/bazaar/services/marketplace/domain/services"
)

// NewAccountInput carries the raw fields of an account to create.
type NewAccountInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
	Password  string
}

// AccountService orchestrates account mutations. Events are published by the
// repository inside the write transaction.
type AccountService struct {
	*authorizer
	repo      repositories.AccountRepository
	validator *domainsvcs.Validator
	merger    *domainsvcs.Merger
}

// Create registers a customer or seller. Admin accounts are refused before
// any other field is looked at.
func (s *AccountService) Create(ctx context.Context, in NewAccountInput) (*models.Account, error) {
	role, err := s.AuthorizeCreate(ctx, in.Role)
	if err != nil {
		return nil, err
	}
	a, err := newAccount(in, role)
	if err != nil {
		return nil, err
	}
	return a, s.save(ctx, a)
}

// AuthorizeCreate parses rawRole and checks that an anonymous caller may
// create an account with it. Returns ErrInvalidRole or ErrForbidden.
func (s *AccountService) AuthorizeCreate(ctx context.Context, rawRole string) (models.Role, error) {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return 0, err
	}
	if err := s.authorize(ctx, nil, policy.CreateAccount, policy.NewAccountTarget(role)); err != nil {
		return 0, err
	}
	return role, nil
}

// ProvisionAdmin creates an admin account. It bypasses the rule table and is
// only reachable from the admin CLI.
func (s *AccountService) ProvisionAdmin(ctx context.Context, in NewAccountInput) (*models.Account, error) {
	a, err := newAccount(in, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "admin provisioned", "account_id", a.ID)
	return a, nil
}

func newAccount(in NewAccountInput, role models.Role) (*models.Account, error) {
	a, err := models.NewAccount(in.FirstName, in.LastName, in.Email, in.Phone, role)
	if err != nil {
		return nil, err
	}
	if err := models.CheckPassword(in.Password); err != nil {
		return nil, err
	}
	if a.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) save(ctx context.Context, a *models.Account) error {
	if err := s.validator.CheckUniqueEmail(ctx, a.Email, uuid.Nil); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	s.log.InfoContext(ctx, "account created", "account_id", a.ID, "role", a.Role.String())
	return nil
}

// Get returns ErrAccountNotFound for an unknown id.
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every account regardless of state.
func (s *AccountService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Account, error) {
	accounts, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Update applies p to the actor's own account.
func (s *AccountService) Update(ctx context.Context, actorID, id uuid.UUID, p models.AccountPatch) (*models.Account, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, policy.UpdateAccount, policy.AccountTarget(target)); err != nil {
		return nil, err
	}

	merged, err := s.merger.Account(ctx, target, p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.log.InfoContext(ctx, "account updated", "account_id", merged.ID)
	return merged, nil
}

// Disable deactivates an account. Allowed for the account itself or an
// admin; admin accounts can never be disabled.
func (s *AccountService) Disable(ctx context.Context, actorID, id uuid.UUID) (*models.Account, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, target, lifecycle.Disable,
		s.guard(ctx, actor, policy.DisableAccount, policy.AccountTarget(target)))
}

// Enable reactivates an account. Admin only.
func (s *AccountService) Enable(ctx context.Context, actorID, id uuid.UUID) (*models.Account, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, policy.EnableAccount, policy.Target{ID: id}); err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, target, lifecycle.Enable, lifecycle.Allow)
}

func (s *AccountService) transition(ctx context.Context, actor *policy.Actor, a *models.Account, ev lifecycle.Event, guard lifecycle.Guard) (*models.Account, error) {
	state, err := s.run(ctx, transition{
		entity:    "account",
		id:        a.ID,
		actorID:   actorIDOf(actor),
		current:   a.Status,
		event:     ev,
		guard:     guard,
		setStatus: s.repo.SetStatus,
		reload: func(ctx context.Context) (lifecycle.State, error) {
			fresh, err := s.repo.GetByID(ctx, a.ID)
			if err != nil {
				return 0, err
			}
			return fresh.Status, nil
		},
	})
	if err != nil {
		return nil, err
	}
	updated := *a
	updated.Status = state
	return &updated, nil
}
