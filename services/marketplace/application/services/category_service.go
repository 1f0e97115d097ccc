package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/policy"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/bazaar/services/marketplace/domain/services"
)

// CategoryService orchestrates category mutations. Every mutation is admin only.
type CategoryService struct {
	*authorizer
	repo      repositories.CategoryRepository
	validator *domainsvcs.Validator
}

// Create validates name, checks the actor is an admin, then rejects a name
// already used by any category, active or not, ignoring case.
func (s *CategoryService) Create(ctx context.Context, actorID uuid.UUID, name string) (*models.Category, error) {
	c, err := models.NewCategory(actorID, name)
	if err != nil {
		return nil, err
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, policy.CreateCategory, policy.Target{}); err != nil {
		return nil, err
	}
	if err := s.validator.CheckUniqueCategoryName(ctx, c.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	s.log.InfoContext(ctx, "category created", "category_id", c.ID, "admin_id", actorID)
	return c, nil
}

// List returns active categories.
func (s *CategoryService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Category, error) {
	categories, err := s.repo.ListActive(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Disable(ctx context.Context, actorID, id uuid.UUID) (*models.Category, error) {
	return s.transition(ctx, actorID, id, policy.DisableCategory, lifecycle.Disable)
}

func (s *CategoryService) Enable(ctx context.Context, actorID, id uuid.UUID) (*models.Category, error) {
	return s.transition(ctx, actorID, id, policy.EnableCategory, lifecycle.Enable)
}

func (s *CategoryService) transition(ctx context.Context, actorID, id uuid.UUID, action policy.Action, ev lifecycle.Event) (*models.Category, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, action, policy.Target{ID: id}); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := s.run(ctx, transition{
		entity:    "category",
		id:        c.ID,
		actorID:   actorIDOf(actor),
		current:   c.Status,
		event:     ev,
		guard:     lifecycle.Allow,
		setStatus: s.repo.SetStatus,
		reload: func(ctx context.Context) (lifecycle.State, error) {
			fresh, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return fresh.Status, nil
		},
	})
	if err != nil {
		return nil, err
	}
	updated := *c
	updated.Status = state
	return &updated, nil
}
