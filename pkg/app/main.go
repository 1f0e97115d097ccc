package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/bazaar/pkg/cache"
	"github.com/ghuser/bazaar/pkg/config"
	"github.com/ghuser/bazaar/pkg/database"
	"github.com/ghuser/bazaar/pkg/errhttp"
	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/pkg/logger"
	"github.com/ghuser/bazaar/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Pass it to every bounded context's route registration during startup.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item disabled", "item_id", id)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	ItemCache    *cache.ItemCache
	Metrics      *telemetry.Metrics
	Errors       *errhttp.Writer
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}
