package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/homecare-api/internal/api/http/handlers"
	"github.com/spec-kit/homecare-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Schedule     *handlers.ScheduleHandler
	TimeLogs     *handlers.TimeLogHandler
	CareRequests *handlers.CareRequestHandler
	Careers      *handlers.CareersHandler
	Blog         *handlers.BlogHandler
	Admin        *handlers.AdminHandler
	Gate         *auth.Gate
	// RateLimit guards every /api route when set.
	RateLimit fiber.Handler
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	if cfg.RateLimit != nil {
		api.Use(cfg.RateLimit)
	}
	authenticated := cfg.Gate.RequireAuthentication
	adminOnly := auth.RequireAdmin()

	// Public
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/care-requests", cfg.CareRequests.Submit)
	api.Get("/careers/positions", cfg.Careers.ListPositions(true))
	api.Get("/careers/positions/:id", cfg.Careers.GetPosition)
	api.Post("/careers/applications", cfg.Careers.Apply)
	api.Get("/blog/posts", cfg.Blog.ListPublished)
	api.Get("/blog/posts/:slug", cfg.Blog.GetPublished)
	api.Get("/blog/categories", cfg.Blog.ListCategories)

	// Any signed-in account
	api.Get("/auth/me", authenticated, cfg.Auth.Me)
	api.Post("/staff/change-password", authenticated, cfg.Auth.ChangePassword)
	api.Get("/shifts", authenticated, cfg.Schedule.MyShifts)
	api.Get("/shift-reports/:shiftId", authenticated, cfg.Schedule.GetReport)
	api.Post("/shift-reports/:shiftId/report", authenticated, cfg.Schedule.SubmitReport)
	api.Get("/clients", authenticated, cfg.Admin.Clients)

	timeLogs := api.Group("/time-logs", authenticated)
	timeLogs.Post("/", cfg.TimeLogs.Create)
	timeLogs.Get("/", cfg.TimeLogs.List)
	timeLogs.Get("/recent", cfg.TimeLogs.Recent)
	timeLogs.Get("/:id", cfg.TimeLogs.Get)

	// Admin
	schedules := api.Group("/schedules", authenticated, adminOnly)
	schedules.Get("/", cfg.Schedule.List)
	schedules.Post("/", cfg.Schedule.Create)
	schedules.Post("/check", cfg.Schedule.Check)
	schedules.Get("/availability/:staffId", cfg.Schedule.Availability)
	schedules.Put("/:id", cfg.Schedule.Update)
	schedules.Post("/:id/cancel", cfg.Schedule.Cancel)
	schedules.Delete("/:id", cfg.Schedule.Delete)

	admin := api.Group("/admin", authenticated, adminOnly)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/staff-metrics", cfg.Admin.StaffMetrics)
	admin.Get("/staff-metrics/export", cfg.Admin.ExportStaffMetrics)
	admin.Get("/settings", cfg.Admin.Settings)
	admin.Put("/settings", cfg.Admin.UpdateSettings)

	admin.Get("/team", cfg.Admin.ListTeam)
	admin.Post("/team", cfg.Admin.CreateTeamMember)
	admin.Put("/team/:id", cfg.Admin.UpdateTeamMember)
	admin.Delete("/team/:id", cfg.Admin.DeactivateTeamMember)

	admin.Get("/time-logs/export", cfg.TimeLogs.Export)
	admin.Patch("/time-logs/:id/status", cfg.TimeLogs.Review)

	admin.Get("/care-requests", cfg.CareRequests.List)
	admin.Patch("/care-requests/:id/status", cfg.CareRequests.UpdateStatus)

	admin.Get("/positions", cfg.Careers.ListPositions(false))
	admin.Post("/positions", cfg.Careers.CreatePosition)
	admin.Put("/positions/:id", cfg.Careers.UpdatePosition)
	admin.Delete("/positions/:id", cfg.Careers.DeletePosition)
	admin.Get("/applications", cfg.Careers.ListApplications)
	admin.Patch("/applications/:id/status", cfg.Careers.UpdateApplicationStatus)

	admin.Get("/blog/posts", cfg.Blog.ListAll)
	admin.Post("/blog/posts", cfg.Blog.Create)
	admin.Put("/blog/posts/:id", cfg.Blog.Update)
	admin.Delete("/blog/posts/:id", cfg.Blog.Delete)
	admin.Post("/blog/categories", cfg.Blog.CreateCategory)
}
