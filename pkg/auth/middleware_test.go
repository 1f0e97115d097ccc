package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/bazaar/pkg/logger"
)

// newTestStore returns a CookieStore so the middleware can be tested without
// Redis; RedisStore satisfies the same sessions.Store interface.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// carryCookies copies Set-Cookie headers from a recorder onto a new request.
func carryCookies(w *httptest.ResponseRecorder, method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func signedIn(t *testing.T, store sessions.Store, actorID uuid.UUID) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	if err := StartSession(store, w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil), actorID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return carryCookies(w, http.MethodPatch, "/api/items/x")
}

func captureActor(got *uuid.UUID, present *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *present = ActorIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadActor_ValidSession(t *testing.T) {
	store := newTestStore()
	actorID := uuid.New()

	var got uuid.UUID
	var present bool
	w := httptest.NewRecorder()
	LoadActor(store, logger.Nop())(captureActor(&got, &present)).ServeHTTP(w, signedIn(t, store, actorID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !present || got != actorID {
		t.Fatalf("expected actor %v in context, got %v (present=%v)", actorID, got, present)
	}
}

func TestLoadActor_AnonymousContinues(t *testing.T) {
	store := newTestStore()

	var got uuid.UUID
	var present bool
	w := httptest.NewRecorder()
	LoadActor(store, logger.Nop())(captureActor(&got, &present)).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if present {
		t.Fatalf("expected no actor, got %v", got)
	}
}

func TestLoadActor_InvalidActorID(t *testing.T) {
	store := newTestStore()

	writeReq := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	session.Values[sessionActorIDKey] = "not-a-valid-uuid"
	_ = session.Save(writeReq, w1)

	var got uuid.UUID
	var present bool
	w := httptest.NewRecorder()
	LoadActor(store, logger.Nop())(captureActor(&got, &present)).
		ServeHTTP(w, carryCookies(w1, http.MethodGet, "/api/items"))

	if present {
		t.Fatalf("expected corrupt session to be ignored, got %v", got)
	}
}

func TestEndSession(t *testing.T) {
	store := newTestStore()
	req := signedIn(t, store, uuid.New())

	w := httptest.NewRecorder()
	if err := EndSession(store, w, req); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestSessionActor_NoSession(t *testing.T) {
	_, err := SessionActor(newTestStore(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
