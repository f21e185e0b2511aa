package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AI             *handlers.AIHandler
	Notifications  *handlers.NotificationsHandler
	Taxonomy       *handlers.TaxonomyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)
	authProtected.Get("/me", cfg.Users.Me)

	// Suggestion endpoints serve the submission form before any ticket or
	// session exists, so they stay open. Feedback needs a staff principal.
	aiGroup := app.Group("/ai")
	aiGroup.Post("/suggest-category", cfg.AI.SuggestCategory)
	aiGroup.Post("/suggest-priority", cfg.AI.SuggestPriority)
	aiGroup.Post("/suggest-fields", cfg.AI.SuggestFields)
	aiGroup.Post("/generate-response", cfg.AI.GenerateResponse)
	aiGroup.Get("/accuracy-metrics", cfg.AI.AccuracyMetrics)
	aiGroup.Post("/feedback", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.AI.RecordFeedback)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/departments", cfg.Taxonomy.ListDepartments)
	protected.Get("/categories", cfg.Taxonomy.ListCategories)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/reopen", cfg.Tickets.ReopenTicket)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)
	tickets.Get("/:id/updates", cfg.Tickets.ListUpdates)

	staff := protected.Group("/staff/tickets", auth.RequireStaff())
	staff.Patch("/:id/status", cfg.StaffTickets.UpdateStatus)
	staff.Patch("/:id/priority", cfg.StaffTickets.UpdatePriority)
	staff.Patch("/:id/category", cfg.StaffTickets.UpdateCategory)
	staff.Post("/:id/assign", cfg.StaffTickets.AssignTicket)
	staff.Post("/:id/escalate", cfg.StaffTickets.EscalateTicket)
	staff.Get("/:id/escalations", cfg.StaffTickets.ListEscalations)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
