package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Analytics *handlers.AnalyticsHandler
	System    *handlers.SystemHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	// Registered before /tickets/:id so "queue" is not captured as an id.
	api.Get("/tickets/queue", cfg.Tickets.Queue)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)

	api.Post("/tickets/:id/reprioritize", cfg.Tickets.Reprioritize)
	api.Post("/tickets/:id/override", cfg.Tickets.ApplyOverride)
	api.Delete("/tickets/:id/override", cfg.Tickets.RemoveOverride)
	api.Get("/tickets/:id/explanation", cfg.Tickets.Explanation)
	api.Post("/tickets/:id/feedback", cfg.Tickets.SubmitFeedback)

	api.Get("/analytics/statistics", cfg.Analytics.Statistics)
	api.Get("/analytics/ai-performance", cfg.Analytics.AIPerformance)

	api.Post("/system/reset", cfg.System.Reset)
}
