package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/api/http/handlers"
	"github.com/scalebit/admin-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Metrics    fiber.Handler
	Session    fiber.Handler
	RouteGuard *auth.RouteGuard
	Auth       *handlers.AuthHandler
	Dashboard  *handlers.DashboardHandler
	Users      *handlers.UsersHandler
	Catalog    *handlers.CatalogHandler
}

// RegisterRoutes wires HTTP routes. Infrastructure endpoints are registered
// ahead of the session and route guard middleware so they bypass both.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Use(cfg.Session, fiber.Handler(cfg.RouteGuard.Handle))

	app.Get(auth.LoginPath, cfg.Auth.LoginPage)
	app.Post(auth.LoginPath, cfg.Auth.Login)
	app.Get(auth.RegisterPath, cfg.Auth.RegisterPage)
	app.Post(auth.RegisterPath, cfg.Auth.Register)
	app.Post(auth.LogoutPath, cfg.Auth.Logout)

	app.Get(auth.HomePath, cfg.Dashboard.Overview)

	admin := auth.RequireAdmin()

	users := app.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Detail)
	users.Post("/", admin, cfg.Users.Create)
	users.Put("/:id", admin, cfg.Users.Update)
	users.Put("/:id/role", admin, cfg.Users.SetRole)
	users.Delete("/:id", admin, cfg.Users.Delete)

	products := app.Group("/products")
	products.Get("/", cfg.Catalog.ListProducts)
	products.Post("/", admin, cfg.Catalog.CreateProduct)
	products.Put("/:id", admin, cfg.Catalog.UpdateProduct)
	products.Delete("/:id", admin, cfg.Catalog.DeleteProduct)

	orders := app.Group("/orders")
	orders.Get("/", cfg.Catalog.ListOrders)
	orders.Post("/", admin, cfg.Catalog.CreateOrder)
	orders.Put("/:id", admin, cfg.Catalog.UpdateOrder)
	orders.Delete("/:id", admin, cfg.Catalog.DeleteOrder)

	payments := app.Group("/payments")
	payments.Get("/", cfg.Catalog.ListPayments)
	payments.Post("/", admin, cfg.Catalog.CreatePayment)
	payments.Put("/:id", admin, cfg.Catalog.UpdatePayment)
	payments.Delete("/:id", admin, cfg.Catalog.DeletePayment)
}
