package handlers

import (
	"net/http"

	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/httpx"
	pkgvalidator "github.com/ghuser/bazaar/pkg/validator"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// ItemHandler serves /api/items.
type ItemHandler struct {
	svc    *appsvcs.Services
	errors *errhttp.Writer
}

func NewItemHandler(svc *appsvcs.Services, errors *errhttp.Writer) *ItemHandler {
	return &ItemHandler{svc: svc, errors: errors}
}

// Create lists a new item for the signed-in seller.
//
//	@Summary	Create item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateItemRequest	true	"Item creation request"
//	@Success	201		{object}	ItemResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Failure	422		{object}	httpx.ErrorBody
//	@Router		/items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item.Create(r.Context(), actorID(r), appsvcs.NewItemInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

// List returns active items.
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{array}		ItemResponse
//	@Router		/items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	items, err := h.svc.Item.List(r.Context(), opts)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapSlice(items, toItemResponse))
}

// Get returns one item, served from cache when possible.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Update changes an item. Allowed for its seller or an admin.
//
//	@Summary	Update item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Item ID"
//	@Param		request	body		UpdateItemRequest	true	"Fields to change"
//	@Success	200		{object}	ItemResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Failure	422		{object}	httpx.ErrorBody
//	@Router		/items/{id} [patch]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item.Update(r.Context(), actorID(r), id, req.patch())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Disable delists an item.
//
//	@Summary	Disable item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	403	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Failure	409	{object}	httpx.ErrorBody
//	@Router		/items/{id}/disable [patch]
func (h *ItemHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Item.Disable)
}

// Enable relists an item.
//
//	@Summary	Enable item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	403	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Failure	409	{object}	httpx.ErrorBody
//	@Router		/items/{id}/enable [patch]
func (h *ItemHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Item.Enable)
}

func (h *ItemHandler) transition(w http.ResponseWriter, r *http.Request, fire lifecycleFunc[models.Item]) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := fire(r.Context(), actorID(r), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
