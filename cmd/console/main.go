package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/scalebit/admin-console/internal/api/http"
	"github.com/scalebit/admin-console/internal/api/http/handlers"
	"github.com/scalebit/admin-console/internal/apiclient"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/observability"
	"github.com/scalebit/admin-console/internal/persistence"
	"github.com/scalebit/admin-console/internal/service"
	"github.com/scalebit/admin-console/internal/worker"
)

func main() {
	cfg, err := config.Load(config.StoreMemory)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends, err := persistence.OpenSlotStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.Error(err))
	}
	defer backends.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	api, err := apiclient.New(cfg.API,
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(metrics),
		apiclient.WithEvents(dispatcher),
	)
	if err != nil {
		logger.Fatal("failed to configure api client", zap.Error(err))
	}

	factory := service.NewFactory(service.FactoryDependencies{
		API:           api,
		Dispatcher:    dispatcher,
		Logger:        logger,
		RegisterDelay: cfg.Console.RegisterRedirectDelay(),
	})

	app := httptransport.NewConsoleApp(httptransport.ConsoleDependencies{
		Config:   *cfg,
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: registry,
		Slots:    backends.Slots,
		Factory:  factory,
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backends, cfg.Store.Backend),
	})

	go func() {
		logger.Info("console listening", zap.String("addr", cfg.App.Addr()), zap.String("api", api.BaseURL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
