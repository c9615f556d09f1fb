package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/apiclient"
	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/cli"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/observability"
	"github.com/scalebit/admin-console/internal/persistence"
	"github.com/scalebit/admin-console/internal/repository"
	"github.com/scalebit/admin-console/internal/service"
	"github.com/scalebit/admin-console/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.StoreFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewCLILogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := persistence.OpenSlotStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, nil))

	api, err := apiclient.New(cfg.API, apiclient.WithLogger(logger), apiclient.WithEvents(dispatcher))
	if err != nil {
		return err
	}

	app := cli.NewApp(cli.Dependencies{
		Factory: service.NewFactory(service.FactoryDependencies{
			API:           api,
			Dispatcher:    dispatcher,
			Logger:        logger,
			RegisterDelay: cfg.Console.RegisterRedirectDelay(),
		}),
		Store:  repository.Bind(backends.Slots, repository.TokenKey),
		Routes: auth.DefaultRoutes().BounceAuthenticated(cfg.Console.BounceAuthenticated),
		Logger: logger.With(zap.String("component", "cli")),
	})
	return app.Execute(ctx, os.Args[1:])
}
