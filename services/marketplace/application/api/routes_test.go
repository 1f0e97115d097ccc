package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/bazaar/pkg/app"
	"github.com/ghuser/bazaar/pkg/auth"
	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/services/marketplace/application/api"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
	"github.com/ghuser/bazaar/services/marketplace/internal/memstore"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	svcs    *appsvcs.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.NewStore()
	svcs := appsvcs.NewWithDeps(appsvcs.Deps{
		Accounts:   store.Accounts(),
		Items:      store.Items(),
		Categories: store.Categories(),
	})
	sessionStore := sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
	a := &app.Application{
		Logger:       logger.Nop(),
		Errors:       errhttp.New(logger.Nop(), false),
		SessionStore: sessionStore,
	}

	r := chi.NewRouter()
	r.Use(auth.LoadActor(sessionStore, logger.Nop()))
	r.Route("/api", func(r chi.Router) { api.Mount(r, svcs, a) })
	return &testServer{t: t, handler: r, svcs: svcs}
}

// do sends body (a JSON string, or "" for none) with the given cookies.
func (s *testServer) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

const testPassword = "correct horse"

func credentials(email, password string) string {
	return `{"email":"` + email + `","password":"` + password + `"}`
}

func (s *testServer) signIn(email string) []*http.Cookie {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/sessions", credentials(email, testPassword), nil)
	if w.Code != http.StatusCreated {
		s.t.Fatalf("sign in: %d %s", w.Code, w.Body)
	}
	return w.Result().Cookies()
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.ID
}

func (s *testServer) createAccount(email, role string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/accounts",
		`{"first_name":"Asha","last_name":"Rao","email":"`+email+`","phone":"9876543210","role":"`+role+`","password":"`+testPassword+`"}`, nil)
	if w.Code != http.StatusCreated {
		s.t.Fatalf("create account: %d %s", w.Code, w.Body)
	}
	return decodeID(s.t, w)
}

func TestCreateAccount_StatusCodes(t *testing.T) {
	srv := newTestServer(t)
	srv.createAccount("first@example.com", "customer")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"admin self-create", `{"first_name":"Root","last_name":"User","email":"root@example.com","phone":"9876543210","role":"admin","password":"correct horse"}`, http.StatusForbidden},
		{"admin with bad phone", `{"first_name":"Root","last_name":"User","email":"root@example.com","phone":"1234567890","role":"admin","password":"correct horse"}`, http.StatusForbidden},
		{"admin with short name", `{"first_name":"R","last_name":"User","email":"root@example.com","phone":"9876543210","role":"admin","password":"correct horse"}`, http.StatusForbidden},
		{"admin with nothing else", `{"role":"admin"}`, http.StatusForbidden},
		{"duplicate email any case", `{"first_name":"Asha","last_name":"Rao","email":"FIRST@example.com","phone":"9876543210","role":"seller","password":"correct horse"}`, http.StatusConflict},
		{"missing fields", `{"first_name":"Asha"}`, http.StatusUnprocessableEntity},
		{"unknown role", `{"first_name":"Asha","last_name":"Rao","email":"o@example.com","phone":"9876543210","role":"owner","password":"correct horse"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"first_name":"Asha","last_name":"Rao","email":"nope","phone":"9876543210","role":"seller","password":"correct horse"}`, http.StatusUnprocessableEntity},
		{"bad phone", `{"first_name":"Asha","last_name":"Rao","email":"p@example.com","phone":"1234567890","role":"seller","password":"correct horse"}`, http.StatusUnprocessableEntity},
		{"short password", `{"first_name":"Asha","last_name":"Rao","email":"s@example.com","phone":"9876543210","role":"seller","password":"short"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"first_name":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodPost, "/api/accounts", tt.body, nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
			}
		})
	}
}

func TestSignIn_RequiresPassword(t *testing.T) {
	srv := newTestServer(t)
	admin, err := srv.svcs.Account.ProvisionAdmin(context.Background(), appsvcs.NewAccountInput{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com", Phone: "9876543210",
		Password: testPassword,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"admin id alone", `{"account_id":"` + admin.ID.String() + `"}`, http.StatusUnprocessableEntity},
		{"wrong password", credentials("admin@example.com", "guessed-it"), http.StatusUnauthorized},
		{"unknown email", credentials("ghost@example.com", testPassword), http.StatusUnauthorized},
		{"empty password", credentials("admin@example.com", ""), http.StatusUnprocessableEntity},
		{"email any case", credentials("ADMIN@Example.com", testPassword), http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodPost, "/api/sessions", tt.body, nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
			}
			if tt.want != http.StatusCreated && len(w.Result().Cookies()) != 0 {
				t.Fatal("failed sign in must not set a session cookie")
			}
		})
	}
}

func TestUpdateAccount_Patch(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createAccount("self@example.com", "customer")
	other := srv.createAccount("other@example.com", "customer")
	cookies := srv.signIn("self@example.com")

	tests := []struct {
		name    string
		path    string
		body    string
		cookies []*http.Cookie
		want    int
	}{
		{"empty patch", "/api/accounts/" + id, `{}`, cookies, http.StatusBadRequest},
		{"explicit null", "/api/accounts/" + id, `{"phone":null}`, cookies, http.StatusBadRequest},
		{"bad email", "/api/accounts/" + id, `{"email":"not-an-email"}`, cookies, http.StatusUnprocessableEntity},
		{"email of another account", "/api/accounts/" + id, `{"email":"OTHER@example.com"}`, cookies, http.StatusConflict},
		{"foreign account", "/api/accounts/" + other, `{"first_name":"Mallory"}`, cookies, http.StatusForbidden},
		{"anonymous", "/api/accounts/" + id, `{"first_name":"Nobody"}`, nil, http.StatusNotFound},
		{"bad id", "/api/accounts/not-a-uuid", `{"first_name":"Asha"}`, cookies, http.StatusBadRequest},
		{"phone normalized", "/api/accounts/" + id, `{"phone":"+91-98765-43219"}`, cookies, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodPatch, tt.path, tt.body, tt.cookies)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
			}
		})
	}

	w := srv.do(http.MethodGet, "/api/accounts/"+id, "", nil)
	if !strings.Contains(w.Body.String(), `"phone":"9876543219"`) {
		t.Fatalf("phone not canonicalized: %s", w.Body)
	}
}

func TestMarketplaceFlow(t *testing.T) {
	srv := newTestServer(t)
	admin, err := srv.svcs.Account.ProvisionAdmin(context.Background(), appsvcs.NewAccountInput{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com", Phone: "9876543210",
		Password: testPassword,
	})
	if err != nil {
		t.Fatal(err)
	}
	adminCookies := srv.signIn("admin@example.com")
	seller := srv.createAccount("seller@example.com", "seller")
	sellerCookies := srv.signIn("seller@example.com")
	srv.createAccount("rival@example.com", "seller")
	rivalCookies := srv.signIn("rival@example.com")

	if w := srv.do(http.MethodPost, "/api/categories", `{"name":"Lighting"}`, sellerCookies); w.Code != http.StatusForbidden {
		t.Fatalf("seller creating category: %d", w.Code)
	}
	w := srv.do(http.MethodPost, "/api/categories", `{"name":"Lighting"}`, adminCookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body)
	}
	category := decodeID(t, w)
	if w := srv.do(http.MethodPost, "/api/categories", `{"name":"LIGHTING"}`, adminCookies); w.Code != http.StatusConflict {
		t.Fatalf("duplicate category: %d", w.Code)
	}

	w = srv.do(http.MethodPost, "/api/items", `{"name":"Brass lamp","price":129900,"category_id":"`+category+`"}`, sellerCookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: %d %s", w.Code, w.Body)
	}
	item := decodeID(t, w)

	steps := []struct {
		name    string
		method  string
		path    string
		body    string
		cookies []*http.Cookie
		want    int
	}{
		{"get item", http.MethodGet, "/api/items/" + item, "", nil, http.StatusOK},
		{"rival update", http.MethodPatch, "/api/items/" + item, `{"price":1}`, rivalCookies, http.StatusForbidden},
		{"seller disable", http.MethodPatch, "/api/items/" + item + "/disable", "", sellerCookies, http.StatusOK},
		{"seller disable again", http.MethodPatch, "/api/items/" + item + "/disable", "", sellerCookies, http.StatusConflict},
		{"rival disable before state", http.MethodPatch, "/api/items/" + item + "/disable", "", rivalCookies, http.StatusForbidden},
		{"seller enable", http.MethodPatch, "/api/items/" + item + "/enable", "", sellerCookies, http.StatusOK},
		{"disable category", http.MethodPatch, "/api/categories/" + category + "/disable", "", adminCookies, http.StatusOK},
		{"item on disabled category", http.MethodPost, "/api/items", `{"name":"Copper lamp","price":5000,"category_id":"` + category + `"}`, sellerCookies, http.StatusNotFound},
		{"move to disabled category", http.MethodPatch, "/api/items/" + item, `{"category_id":"` + category + `"}`, sellerCookies, http.StatusNotFound},
		{"enable category as seller", http.MethodPatch, "/api/categories/" + category + "/enable", "", sellerCookies, http.StatusForbidden},
		{"enable category", http.MethodPatch, "/api/categories/" + category + "/enable", "", adminCookies, http.StatusOK},
		{"admin immune", http.MethodPatch, "/api/accounts/" + admin.ID.String() + "/disable", "", adminCookies, http.StatusForbidden},
		{"admin disables seller", http.MethodPatch, "/api/accounts/" + seller + "/disable", "", adminCookies, http.StatusOK},
		{"seller enables self", http.MethodPatch, "/api/accounts/" + seller + "/enable", "", sellerCookies, http.StatusForbidden},
		{"disabled account cannot sign in", http.MethodPost, "/api/sessions", credentials("seller@example.com", testPassword), nil, http.StatusForbidden},
		{"admin enables seller", http.MethodPatch, "/api/accounts/" + seller + "/enable", "", adminCookies, http.StatusOK},
		{"unknown item", http.MethodGet, "/api/items/00000000-0000-0000-0000-000000000001", "", nil, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/items?limit=0", "", nil, http.StatusUnprocessableEntity},
		{"sign out", http.MethodDelete, "/api/sessions", "", sellerCookies, http.StatusNoContent},
	}
	for _, st := range steps {
		w := srv.do(st.method, st.path, st.body, st.cookies)
		if w.Code != st.want {
			t.Fatalf("%s: expected %d, got %d: %s", st.name, st.want, w.Code, w.Body)
		}
	}

	w = srv.do(http.MethodGet, "/api/items", "", nil)
	var items []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0]["id"] != item {
		t.Fatalf("unexpected listing: %v", items)
	}
}
