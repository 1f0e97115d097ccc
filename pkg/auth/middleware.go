package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/bazaar/pkg/logger"
)

const (
	sessionName       = "bazaar_session"
	sessionActorIDKey = "actor_id"
)

// ErrNoSession is returned by SessionActor when the request has no signed-in actor.
var ErrNoSession = errors.New("no active session")

// LoadActor is a chi middleware that resolves the session cookie and, when it
// names an actor, injects the actor id into the request context. Requests
// without a usable session continue anonymously.
func LoadActor(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := SessionActor(store, r)
			switch {
			case err == nil:
				r = r.WithContext(WithActorID(r.Context(), id))
			case errors.Is(err, ErrNoSession):
			default:
				log.WarnContext(r.Context(), "ignoring unusable session", "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionActor returns the actor id stored in the request's session.
func SessionActor(store sessions.Store, r *http.Request) (uuid.UUID, error) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("read session: %w", err)
	}
	raw, ok := session.Values[sessionActorIDKey].(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrNoSession
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid actor_id in session %q: %w", raw, err)
	}
	return id, nil
}

// StartSession binds actorID to the request's session and writes the cookie.
// Any previous session id is discarded so a sign-in never reuses it.
func StartSession(store sessions.Store, w http.ResponseWriter, r *http.Request, actorID uuid.UUID) error {
	// A stale or tampered cookie still yields a fresh session to write into.
	session, err := store.Get(r, sessionName)
	if session == nil {
		return fmt.Errorf("read session: %w", err)
	}
	session.ID = ""
	session.Values = map[any]any{sessionActorIDKey: actorID.String()}
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// EndSession expires the session cookie and its server-side record.
func EndSession(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, sessionName)
	if session == nil {
		return fmt.Errorf("read session: %w", err)
	}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}
