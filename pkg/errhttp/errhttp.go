// Package errhttp maps marketplace domain errors to HTTP responses.
// Classification is by error kind, so new specific errors need no change here.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/bazaar/pkg/httpx"
	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/pkg/telemetry"
	"github.com/ghuser/bazaar/services/marketplace/domain"
)

// Writer writes error responses. Unexpected errors are logged, reported to
// Sentry and, in production, returned to the client without detail.
type Writer struct {
	log        logger.Logger
	production bool
}

// New returns a Writer.
func New(log logger.Logger, production bool) *Writer {
	return &Writer{log: log, production: production}
}

// WriteError answers r with the status Status(err) selects.
func (e *Writer) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		e.log.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, e.production))
}

// Status returns the HTTP status for err:
// bad credentials 401, not found 404, forbidden 403, conflict 409, empty
// update 400, other validation 422, anything else 500.
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmptyUpdate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
