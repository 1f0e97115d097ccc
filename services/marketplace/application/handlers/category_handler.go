package handlers

import (
	"net/http"

	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/httpx"
	pkgvalidator "github.com/ghuser/bazaar/pkg/validator"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// CategoryHandler serves /api/categories. Every mutation is admin only.
type CategoryHandler struct {
	svc    *appsvcs.Services
	errors *errhttp.Writer
}

func NewCategoryHandler(svc *appsvcs.Services, errors *errhttp.Writer) *CategoryHandler {
	return &CategoryHandler{svc: svc, errors: errors}
}

// Create adds a category.
//
//	@Summary	Create category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateCategoryRequest	true	"Category creation request"
//	@Success	201		{object}	CategoryResponse
//	@Failure	403		{object}	httpx.ErrorBody
//	@Failure	409		{object}	httpx.ErrorBody
//	@Failure	422		{object}	httpx.ErrorBody
//	@Router		/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateCategoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Category.Create(r.Context(), actorID(r), req.Name)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(c))
}

// List returns active categories.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Param		limit	query	int	false	"Page size"
//	@Param		offset	query	int	false	"Page offset"
//	@Success	200		{array}	CategoryResponse
//	@Router		/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, ok := queryOpts(w, r)
	if !ok {
		return
	}
	categories, err := h.svc.Category.List(r.Context(), opts)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapSlice(categories, toCategoryResponse))
}

// Disable deactivates a category.
//
//	@Summary	Disable category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	CategoryResponse
//	@Failure	403	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Failure	409	{object}	httpx.ErrorBody
//	@Router		/categories/{id}/disable [patch]
func (h *CategoryHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Category.Disable)
}

// Enable reactivates a category.
//
//	@Summary	Enable category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	CategoryResponse
//	@Failure	403	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Failure	409	{object}	httpx.ErrorBody
//	@Router		/categories/{id}/enable [patch]
func (h *CategoryHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Category.Enable)
}

func (h *CategoryHandler) transition(w http.ResponseWriter, r *http.Request, fire lifecycleFunc[models.Category]) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := fire(r.Context(), actorID(r), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(c))
}
