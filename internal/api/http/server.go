package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/api/http/handlers"
	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/observability"
	"github.com/scalebit/admin-console/internal/repository"
	"github.com/scalebit/admin-console/internal/service"
)

// ConsoleDependencies is everything the web console needs to serve requests.
type ConsoleDependencies struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Slots    repository.SlotStore
	Factory  *service.Factory
	Health   *handlers.HealthHandler
	Now      func() time.Time
}

// NewConsoleApp assembles the fiber app.
func NewConsoleApp(deps ConsoleDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               deps.Config.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.Config.App.RequestTimeout())

	var metricsHandler fiber.Handler
	if deps.Gatherer != nil {
		metricsHandler = adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler(deps.Config.App.Name, deps.Config.App.Version, nil, deps.Config.Store.Backend)
	}

	routes := auth.DefaultRoutes().BounceAuthenticated(deps.Config.Console.BounceAuthenticated)

	RegisterRoutes(app, RouteConfig{
		Health:     health,
		Metrics:    metricsHandler,
		Session:    ConsoleSession(deps.Config.Console, deps.Slots, deps.Factory),
		RouteGuard: auth.NewRouteGuard(routes, deps.Metrics, deps.Now),
		Auth:       handlers.NewAuthHandler(),
		Dashboard:  handlers.NewDashboardHandler(),
		Users:      handlers.NewUsersHandler(),
		Catalog:    handlers.NewCatalogHandler(),
	})
	return app
}
