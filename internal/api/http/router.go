package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/ticket-scheduler/internal/auth"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Calendar       *handlers.CalendarHandler
	Holidays       *handlers.HolidaysHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("/check-availability", cfg.Calendar.CheckAvailability)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	users := api.Group("/users")
	users.Get("", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Get("/:id/assignments", cfg.Calendar.ListAssignments)
	users.Post("/:id/reorganize",
		auth.RequireRole(domain.RoleServiceManager), cfg.Calendar.ReorganizeCalendar)

	api.Get("/specialties", cfg.Users.ListSpecialties)

	holidays := api.Group("/holidays")
	holidays.Get("", cfg.Holidays.ListHolidays)
	holidays.Post("", auth.RequireRole(domain.RoleServiceManager), cfg.Holidays.CreateHoliday)
	holidays.Post("/sync", auth.RequireRole(domain.RoleServiceManager), cfg.Holidays.SyncHolidays)
	holidays.Put("/:id", auth.RequireRole(domain.RoleServiceManager), cfg.Holidays.UpdateHoliday)
	holidays.Delete("/:id", auth.RequireRole(domain.RoleServiceManager), cfg.Holidays.DeleteHoliday)

	settings := api.Group("/settings")
	settings.Get("", cfg.Users.ListSettings)
	settings.Put("/:key", auth.RequireRole(domain.RoleServiceManager), cfg.Users.UpdateSetting)
}
