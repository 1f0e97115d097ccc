package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const actorIDKey contextKey = "actor_id"

// ActorIDFromCtx returns the signed-in account id and whether one is present.
// Anonymous requests carry no actor; the marketplace policy decides what an
// anonymous caller may do.
func ActorIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithActorID returns a copy of ctx carrying id as the acting account.
func WithActorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}
