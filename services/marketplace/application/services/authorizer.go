package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/pkg/telemetry"
	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/policy"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
)

// maxTransitionAttempts bounds how often a lifecycle change is retried after
// losing a compare-and-swap to a concurrent transition.
const maxTransitionAttempts = 3

// authorizer resolves the acting account and evaluates the rule table,
// recording every denial.
type authorizer struct {
	accounts repositories.AccountRepository
	metrics  *telemetry.Metrics
	log      logger.Logger
}

// actor looks up the account behind id. It returns (nil, nil) when id is nil
// or names no account.
func (z *authorizer) actor(ctx context.Context, id uuid.UUID) (*policy.Actor, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	a, err := z.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	return policy.ActorOf(a), nil
}

// requireActor is actor for ownership rules, where a missing actor is NotFound.
func (z *authorizer) requireActor(ctx context.Context, id uuid.UUID) (*policy.Actor, error) {
	actor, err := z.actor(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrAccountNotFound
	}
	return actor, nil
}

func (z *authorizer) authorize(ctx context.Context, actor *policy.Actor, action policy.Action, target policy.Target) error {
	err := policy.Authorize(actor, action, target)
	if err == nil {
		return nil
	}
	z.metrics.AuthorizationDenied(ctx, action.String())
	var actorID uuid.UUID
	if actor != nil {
		actorID = actor.ID
	}
	z.log.WarnContext(ctx, "authorization denied",
		"action", action.String(),
		"actor_id", actorID,
		"target_id", target.ID,
		"reason", err.Error(),
	)
	return err
}

// guard adapts authorize to a lifecycle.Guard.
func (z *authorizer) guard(ctx context.Context, actor *policy.Actor, action policy.Action, target policy.Target) lifecycle.Guard {
	return func() error { return z.authorize(ctx, actor, action, target) }
}

// transition is one lifecycle change of a single entity.
type transition struct {
	entity  string
	id      uuid.UUID
	actorID uuid.UUID
	current lifecycle.State
	event   lifecycle.Event
	guard   lifecycle.Guard

	setStatus func(ctx context.Context, t repositories.Transition) error
	reload    func(ctx context.Context) (lifecycle.State, error)
}

// run authorizes the event, checks the state precondition and commits with a
// compare-and-swap. A lost race re-reads the row and re-evaluates the event
// against the fresh state, so the loser of two identical transitions gets the
// same Conflict a sequential caller would.
func (z *authorizer) run(ctx context.Context, tr transition) (lifecycle.State, error) {
	next := tr.current
	if err := lifecycle.Fire(&next, tr.event, tr.guard); err != nil {
		return tr.current, err
	}

	from := tr.current
	for attempt := 1; ; attempt++ {
		err := tr.setStatus(ctx, repositories.Transition{
			ID: tr.id, ActorID: tr.actorID, From: from, To: next,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrStaleState) || attempt == maxTransitionAttempts {
			return from, fmt.Errorf("%s %s: %w", tr.event, tr.entity, err)
		}

		fresh, err := tr.reload(ctx)
		if err != nil {
			return from, err
		}
		if next, err = lifecycle.Next(fresh, tr.event); err != nil {
			return fresh, err
		}
		from = fresh
	}

	z.metrics.LifecycleTransition(ctx, tr.entity, tr.event.String())
	z.log.InfoContext(ctx, "lifecycle transition committed",
		"entity", tr.entity,
		"id", tr.id,
		"actor_id", tr.actorID,
		"event", tr.event.String(),
		"state", next.String(),
	)
	return next, nil
}

func actorIDOf(a *policy.Actor) uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.ID
}
