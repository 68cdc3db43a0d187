package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stock-service/internal/api/http/handlers"
	"github.com/spec-kit/stock-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoryHandler
	Products       *handlers.ProductHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authenticate := api.Group("/authenticate")
	authenticate.Post("/register-user", cfg.Auth.RegisterUser)
	authenticate.Post("/register-manager", cfg.Auth.RegisterManager)
	authenticate.Post("/register-admin", cfg.Auth.RegisterAdmin)
	authenticate.Post("/login", cfg.Auth.Login)
	// Refresh verifies the presented token itself; the principal-loading
	// middleware would reject the expired tokens it is meant to accept.
	authenticate.Post("/refresh-token", cfg.Auth.RefreshToken)
	authenticate.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	categories := protected.Group("/category")
	categories.Get("/", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", cfg.Categories.Create)
	categories.Put("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	products := protected.Group("/product")
	products.Get("/", cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Post("/", cfg.Products.Create)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)
}
