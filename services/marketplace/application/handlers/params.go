package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/auth"
	"github.com/ghuser/bazaar/pkg/httpx"
	pkgvalidator "github.com/ghuser/bazaar/pkg/validator"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
)

const maxPageSize = 500

// actorID returns the signed-in account, or uuid.Nil for anonymous requests.
func actorID(r *http.Request) uuid.UUID {
	id, _ := auth.ActorIDFromCtx(r.Context())
	return id
}

// pathID parses the {id} URL parameter, answering 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryOpts reads optional limit and offset query parameters.
// Absent limit means no limit.
func queryOpts(w http.ResponseWriter, r *http.Request) (repositories.QueryOpts, bool) {
	var opts repositories.QueryOpts
	fields := map[string]string{}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			fields["limit"] = "Must be an integer between 1 and " + strconv.Itoa(maxPageSize)
		}
		opts.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["offset"] = "Must be a non-negative integer"
		}
		opts.Offset = n
	}
	if len(fields) > 0 {
		pkgvalidator.WriteValidationError(w, fields)
		return opts, false
	}
	return opts, true
}

// lifecycleFunc is a disable or enable operation of an application service.
type lifecycleFunc[T any] func(ctx context.Context, actorID, id uuid.UUID) (*T, error)
