package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/anonrelay/internal/api/http/handlers"
	"github.com/spec-kit/anonrelay/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Messages       *handlers.MessagesHandler
	Moderation     *handlers.ModerationHandler
	Users          *handlers.UsersHandler
	Admins         *handlers.AdminsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/admins/login", cfg.Admins.Login)

	v1 := app.Group("/v1")
	v1.Post("/messages", cfg.Messages.Handle)
	v1.Post("/users/:id/flows/alias", cfg.Messages.StartAliasFlow)
	v1.Post("/users/:id/flows/submission", cfg.Messages.StartSubmissionFlow)
	v1.Post("/users/:id/flows/broadcast", cfg.Messages.StartBroadcastFlow)
	v1.Delete("/users/:id/flows", cfg.Messages.CancelFlow)

	protected := v1.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/users/:id", cfg.Users.Info)
	protected.Post("/users/:id/ban", cfg.Users.SetBan)
	protected.Get("/moderation/pending", cfg.Moderation.ListPending)
	protected.Post("/moderation/:id/decision", cfg.Moderation.Decide)
	protected.Get("/admins", cfg.Admins.List)
	protected.Post("/admins", cfg.Admins.Create)
	protected.Delete("/admins/:id", cfg.Admins.Remove)
}
