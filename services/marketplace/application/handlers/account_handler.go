package handlers

import (
	"errors"
	"net/http"

	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/httpx"
	pkgvalidator "github.com/ghuser/bazaar/pkg/validator"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// AccountHandler serves /api/accounts.
type AccountHandler struct {
	svc    *appsvcs.Services
	errors *errhttp.Writer
}

// NewAccountHandler returns an AccountHandler backed by the given services.
func NewAccountHandler(svc *appsvcs.Services, errors *errhttp.Writer) *AccountHandler {
	return &AccountHandler{svc: svc, errors: errors}
}

// Create registers a customer or seller account.
//
//	@Summary		Create account
//	@Description	Registers a customer or seller. Admin accounts cannot be self-created; role=admin is refused with 403 before any field is validated.
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateAccountRequest	true	"Account creation request"
//	@Success		201		{object}	AccountResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		403		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Failure		422		{object}	httpx.ErrorBody
//	@Router			/accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.DecodeRequest[CreateAccountRequest](w, r)
	if !ok {
		return
	}
	// A forbidden role wins over any field error.
	if _, err := h.svc.Account.AuthorizeCreate(r.Context(), req.Role); errors.Is(err, domain.ErrForbidden) {
		h.errors.WriteError(w, r, err)
		return
	}
	if !pkgvalidator.CheckRequest(w, req) {
		return
	}

	a, err := h.svc.Account.Create(r.Context(), appsvcs.NewAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAccountResponse(a))
}

// List returns every account.
//
//	@Summary	List accounts
//	@Tags		accounts
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{array}		AccountResponse
//	@Failure	422		{object}	httpx.ErrorBody
//	@Router		/accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	accounts, err := h.svc.Account.List(r.Context(), opts)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapSlice(accounts, toAccountResponse))
}

// Get returns one account.
//
//	@Summary	Get account
//	@Tags		accounts
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	AccountResponse
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Account.Get(r.Context(), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(a))
}

// Update changes the signed-in account's own profile.
//
//	@Summary		Update account
//	@Description	Partial update; only the account itself may update it.
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID"
//	@Param			request	body		UpdateAccountRequest	true	"Fields to change"
//	@Success		200		{object}	AccountResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		403		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Failure		422		{object}	httpx.ErrorBody
//	@Router			/accounts/{id} [patch]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateAccountRequest](w, r)
	if !ok {
		return
	}
	if email, present := req.Email.Get(); present {
		if err := pkgvalidator.Var(email, "email"); err != nil {
			pkgvalidator.WriteValidationError(w, map[string]string{"email": "Must be a valid email address"})
			return
		}
	}

	a, err := h.svc.Account.Update(r.Context(), actorID(r), id, req.patch())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(a))
}

// Disable deactivates an account.
//
//	@Summary		Disable account
//	@Description	Allowed for the account itself or an admin. Admin accounts cannot be disabled.
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	AccountResponse
//	@Failure		403	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Failure		409	{object}	httpx.ErrorBody
//	@Router			/accounts/{id}/disable [patch]
func (h *AccountHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Account.Disable)
}

// Enable reactivates an account.
//
//	@Summary	Enable account
//	@Tags		accounts
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	AccountResponse
//	@Failure	403	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Failure	409	{object}	httpx.ErrorBody
//	@Router		/accounts/{id}/enable [patch]
func (h *AccountHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Account.Enable)
}

func (h *AccountHandler) transition(w http.ResponseWriter, r *http.Request, fire lifecycleFunc[models.Account]) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := fire(r.Context(), actorID(r), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(a))
}
