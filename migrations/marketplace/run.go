// Command marketplace applies the marketplace schema migrations to DATABASE_URL.
package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/bazaar/pkg/config"
	"github.com/ghuser/bazaar/pkg/migrator"
)

//go:embed *.sql
var migrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
