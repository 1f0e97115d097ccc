// Command admin provisions an admin account. Admins cannot sign up through
// the API, so the first one is created here:
//
//	ADMIN_PASSWORD=... admin --first-name Asha --last-name Rao --email asha@example.com --phone 9876543210
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardanlabs/conf/v3"

	"github.com/ghuser/bazaar/pkg/app"
	"github.com/ghuser/bazaar/pkg/config"
	"github.com/ghuser/bazaar/pkg/database"
	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/pkg/logger"
	appsvcs "github.com/ghuser/bazaar/services/marketplace/application/services"
)

type adminArgs struct {
	FirstName string `conf:"required,flag:first-name"`
	LastName  string `conf:"required,flag:last-name"`
	Email     string `conf:"required,flag:email"`
	Phone     string `conf:"required,flag:phone"`
	Password  string `conf:"required,mask,flag:password"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("provision admin failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var args adminArgs
	help, err := conf.Parse("ADMIN", &args)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck

	// Publishes go straight to the topics; the API forwarder is not involved.
	bus, err := events.New(pool.DB().DB, events.Options{ConsumerGroup: cfg.ServiceName + "-admin"}, log)
	if err != nil {
		return err
	}
	defer bus.Close() //nolint:errcheck

	svcs := appsvcs.New(&app.Application{Config: cfg, Db: pool, Logger: log, EventBus: bus})
	a, err := svcs.Account.ProvisionAdmin(ctx, appsvcs.NewAccountInput{
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Email:     args.Email,
		Phone:     args.Phone,
		Password:  args.Password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("admin %s created (%s)\n", a.ID, a.Email)
	return nil
}
