package services

import (
	"github.com/ghuser/bazaar/pkg/app"
	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/pkg/telemetry"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/bazaar/services/marketplace/domain/services"
	"github.com/ghuser/bazaar/services/marketplace/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the marketplace.
type Services struct {
	Account  *AccountService
	Item     *ItemService
	Category *CategoryService
	Session  *SessionService
}

// Deps are the collaborators the services are built from. ItemCache may be nil.
type Deps struct {
	Accounts   repositories.AccountRepository
	Items      repositories.ItemRepository
	Categories repositories.CategoryRepository
	ItemCache  ItemReadModel
	Metrics    *telemetry.Metrics
	Logger     logger.Logger
}

// New wires the marketplace services with the Postgres repositories and
// shared infrastructure from the Application container.
func New(a *app.Application) *Services {
	d := Deps{
		Accounts:   postgres.NewAccountRepository(a.Db, a.EventBus),
		Items:      postgres.NewItemRepository(a.Db, a.EventBus),
		Categories: postgres.NewCategoryRepository(a.Db, a.EventBus),
		Metrics:    a.Metrics,
		Logger:     a.Logger,
	}
	if a.ItemCache != nil {
		d.ItemCache = a.ItemCache
	}
	return NewWithDeps(d)
}

// NewWithDeps wires the services from explicit collaborators.
func NewWithDeps(d Deps) *Services {
	if d.Metrics == nil {
		d.Metrics = telemetry.NopMetrics()
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	auth := &authorizer{accounts: d.Accounts, metrics: d.Metrics, log: d.Logger}
	validator := domainsvcs.NewValidator(d.Accounts, d.Categories)
	merger := domainsvcs.NewMerger(validator)

	return &Services{
		Account: &AccountService{
			authorizer: auth,
			repo:       d.Accounts,
			validator:  validator,
			merger:     merger,
		},
		Item: &ItemService{
			authorizer: auth,
			repo:       d.Items,
			validator:  validator,
			merger:     merger,
			cache:      d.ItemCache,
		},
		Category: &CategoryService{
			authorizer: auth,
			repo:       d.Categories,
			validator:  validator,
		},
		Session: &SessionService{accounts: d.Accounts},
	}
}
