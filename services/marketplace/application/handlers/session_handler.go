package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/bazaar/pkg/auth"
	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/httpx"
	pkgvalidator "github.com/ghuser/bazaar/pkg/validator"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
)

// SessionHandler serves /api/sessions. The session cookie carries the
// acting account for every other endpoint.
type SessionHandler struct {
	svc    *appsvcs.Services
	store  sessions.Store
	errors *errhttp.Writer
}

func NewSessionHandler(svc *appsvcs.Services, store sessions.Store, errors *errhttp.Writer) *SessionHandler {
	return &SessionHandler{svc: svc, store: store, errors: errors}
}

// SignIn checks the account's email and password and starts a session acting
// as it.
//
//	@Summary	Sign in
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SignInRequest	true	"Account credentials"
//	@Success	201		{object}	AccountResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody
//	@Failure	422		{object}	httpx.ErrorBody
//	@Router		/sessions [post]
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignInRequest](w, r)
	if !ok {
		return
	}
	a, err := h.svc.Session.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if err := auth.StartSession(h.store, w, r, a.ID); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAccountResponse(a))
}

// SignOut ends the current session.
//
//	@Summary	Sign out
//	@Tags		sessions
//	@Success	204
//	@Router		/sessions [delete]
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := auth.EndSession(h.store, w, r); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
