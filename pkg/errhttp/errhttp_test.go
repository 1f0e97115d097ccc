package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/services/marketplace/domain"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"inactive category", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"forbidden reason", domain.Forbidden("only admin allowed"), http.StatusForbidden},
		{"admin immune", domain.ErrAdminImmune, http.StatusForbidden},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict},
		{"already disabled", domain.ErrAlreadyDisabled, http.StatusConflict},
		{"empty update", domain.ErrEmptyUpdate, http.StatusBadRequest},
		{"wrapped empty update", fmt.Errorf("update item: %w", domain.ErrEmptyUpdate), http.StatusBadRequest},
		{"invalid phone", domain.ErrInvalidPhone, http.StatusUnprocessableEntity},
		{"wrapped invalid name", fmt.Errorf("%w: must be at least 3 characters", domain.ErrInvalidName), http.StatusUnprocessableEntity},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"wrapped infra error", fmt.Errorf("save item: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func writeErr(production bool, err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	New(logger.Nop(), production).WriteError(w, httptest.NewRequest(http.MethodPatch, "/api/items/1", http.NoBody), err)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	return body["error"]
}

func TestWriteError_DomainMessage(t *testing.T) {
	w := writeErr(true, domain.Forbidden("only seller can add items"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "only seller can add items" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestWriteError_HidesInternalInProduction(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.3:5432: connection refused")

	if msg := decodeError(t, writeErr(true, cause)); msg != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("production leaked %q", msg)
	}
	if msg := decodeError(t, writeErr(false, cause)); msg != cause.Error() {
		t.Fatalf("development should show cause, got %q", msg)
	}
}
