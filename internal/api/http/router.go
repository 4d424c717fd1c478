package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/itsm-routing/internal/api/http/handlers"
	"github.com/spec-kit/itsm-routing/internal/auth"
	"github.com/spec-kit/itsm-routing/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Access         *handlers.AccessHandler
	Tickets        *handlers.TicketsHandler
	CustomRoles    *handlers.CustomRolesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	protected.Get("/me/roles", cfg.Access.MyRoles)
	protected.Get("/users/:id/manageable", cfg.Access.UserManageable)
	protected.Get("/tenants/:id/manageable", cfg.Access.TenantManageable)

	tickets := protected.Group("/tickets", auth.RequireStaff())
	tickets.Post("/:id/route", cfg.Tickets.Route)
	tickets.Post("/:id/escalate", cfg.Tickets.Escalate)
	tickets.Get("/:id/escalation-targets", cfg.Tickets.EscalationTargets)
	tickets.Get("/:id/history", cfg.Tickets.History)

	roles := protected.Group("/custom-roles", auth.RequireManager())
	roles.Get("/", cfg.CustomRoles.List)
	roles.Post("/", cfg.CustomRoles.Create)
	roles.Get("/:id", cfg.CustomRoles.Get)
	roles.Patch("/:id", cfg.CustomRoles.Update)
	roles.Delete("/:id", cfg.CustomRoles.Delete)
}
