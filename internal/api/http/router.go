package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phonebook-service/internal/api/http/handlers"
	"github.com/spec-kit/phonebook-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath       string
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	PhoneNumbers   *handlers.PhoneNumbersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group(cfg.BasePath)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/token", cfg.Users.Login)
	authGroup.Post("/refresh", cfg.Users.Refresh)

	protect := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser()}

	authGroup.Get("/me", append(protect, cfg.Users.Me)...)
	authGroup.Delete("/me", append(protect, cfg.Users.DeleteMe)...)

	numbers := api.Group("/phonenumbers", protect...)
	numbers.Post("/", cfg.PhoneNumbers.Create)
	numbers.Get("/", cfg.PhoneNumbers.List)
}
