package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mti-it/onboarding-service/internal/api/http/handlers"
	"github.com/mti-it/onboarding-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Hires          *handlers.HiresHandler
	Settings       *handlers.SettingsHandler
	Directory      *handlers.DirectoryHandler
	Messaging      *handlers.MessagingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/register", auth.RequireAdmin(), cfg.Auth.Register)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	hires := api.Group("/hires")
	hires.Get("", cfg.Hires.List)
	hires.Post("", cfg.Hires.Create)
	hires.Post("/bulk-update", cfg.Hires.BulkUpdate)
	hires.Post("/bulk-delete", cfg.Hires.BulkDelete)
	hires.Get("/report/licenses.csv", cfg.Hires.LicenseReport)
	hires.Get("/:id", cfg.Hires.Get)
	hires.Patch("/:id", cfg.Hires.Update)
	hires.Delete("/:id", cfg.Hires.Delete)
	hires.Get("/:id/audit", cfg.Hires.AuditTrail)
	hires.Post("/:id/srf-document", cfg.Hires.UploadSRF)

	directory := api.Group("/active-directory")
	directory.Post("/accounts", cfg.Directory.CreateAccount)
	directory.Post("/accounts/bulk", cfg.Directory.BulkCreateAccounts)
	directory.Get("/accounts/:id/preview", cfg.Directory.PreviewAccount)
	directory.Get("/search", cfg.Directory.Search)
	directory.Post("/verify-bind", auth.RequireAdmin(), cfg.Directory.VerifyBind)

	api.Post("/exchange/hires/:id/sync", cfg.Messaging.SyncDistributionLists)
	api.Post("/whatsapp/hires/:id/send", cfg.Messaging.SendWhatsApp)
	api.Post("/mail/license-request", cfg.Messaging.SendLicenseRequest)

	settingsGroup := api.Group("/settings")
	settingsGroup.Get("", cfg.Settings.Get)

	settingsAdmin := settingsGroup.Group("", auth.RequireAdmin())
	settingsAdmin.Put("/account-statuses", cfg.Settings.UpdateAccountStatuses)
	settingsAdmin.Put("/departments", cfg.Settings.UpdateDepartments)
	settingsAdmin.Put("/mailing-lists", cfg.Settings.UpdateMailingLists)
	settingsAdmin.Put("/license-types", cfg.Settings.UpdateLicenseTypes)
	settingsAdmin.Put("/templates", cfg.Settings.UpdateTemplates)
	settingsAdmin.Put("/integrations/active-directory", cfg.Settings.UpdateActiveDirectory)
	settingsAdmin.Put("/integrations/graph", cfg.Settings.UpdateGraph)
	settingsAdmin.Put("/integrations/smtp", cfg.Settings.UpdateSMTP)
	settingsAdmin.Put("/integrations/whatsapp", cfg.Settings.UpdateWhatsApp)
	settingsAdmin.Put("/integrations/hris", cfg.Settings.UpdateHRIS)
}
