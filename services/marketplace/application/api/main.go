package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/bazaar/pkg/app"
	"github.com/ghuser/bazaar/services/marketplace/application/handlers"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
)

// MarketplaceRoutes registers the marketplace endpoints on r.
func MarketplaceRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the endpoints backed by svcs. Session routes are only
// mounted when a session store is configured.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	accounts := handlers.NewAccountHandler(svcs, a.Errors)
	items := handlers.NewItemHandler(svcs, a.Errors)
	categories := handlers.NewCategoryHandler(svcs, a.Errors)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", accounts.Create)
		r.Get("/", accounts.List)
		r.Get("/{id}", accounts.Get)
		r.Patch("/{id}", accounts.Update)
		r.Patch("/{id}/disable", accounts.Disable)
		r.Patch("/{id}/enable", accounts.Enable)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", items.Create)
		r.Get("/", items.List)
		r.Get("/{id}", items.Get)
		r.Patch("/{id}", items.Update)
		r.Patch("/{id}/disable", items.Disable)
		r.Patch("/{id}/enable", items.Enable)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", categories.Create)
		r.Get("/", categories.List)
		r.Patch("/{id}/disable", categories.Disable)
		r.Patch("/{id}/enable", categories.Enable)
	})

	if a.SessionStore != nil {
		sessions := handlers.NewSessionHandler(svcs, a.SessionStore, a.Errors)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.SignIn)
			r.Delete("/", sessions.SignOut)
		})
	}
}
