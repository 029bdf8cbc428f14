package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	analyticsService "masingacdf_backend/internals/features/analytics/service"
	notifService "masingacdf_backend/internals/features/notifications/service"
	authMw "masingacdf_backend/internals/middlewares/auth"

	analyticsRoute "masingacdf_backend/internals/features/analytics/route"
	applicationRoute "masingacdf_backend/internals/features/applications/route"
	deadlineRoute "masingacdf_backend/internals/features/deadlines/route"
	notificationRoute "masingacdf_backend/internals/features/notifications/route"
	authRoute "masingacdf_backend/internals/features/users/auth/route"
)

// Deps carries the shared services the route tree needs. Everything is
// constructed once in main and passed down; no package globals.
type Deps struct {
	DB         *gorm.DB
	Dispatcher *notifService.Dispatcher
	Notifier   *notifService.NotificationManager
	BulkEmail  *notifService.BulkEmailService
	SMS        *notifService.SMSService
	Analytics  *analyticsService.AnalyticsService
}

// SetupRoutes mounts the public applicant surface under /api and the
// session-guarded admin surface under /api/a.
func SetupRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")
	admin := app.Group("/api/a", authMw.AdminAuthMiddleware(deps.DB))

	authRoute.AuthRoutes(api, admin, deps.DB)

	deadlineRoute.DeadlineRoutes(api, admin, deps.DB)

	applicationRoute.ApplicationUserRoutes(api, deps.DB, deps.Dispatcher, deps.Notifier)
	applicationRoute.ApplicationAdminRoutes(admin, deps.DB, deps.Dispatcher, deps.Notifier, deps.Analytics)

	analyticsRoute.AnalyticsRoutes(admin, deps.DB, deps.Analytics)

	notificationRoute.NotificationRoutes(admin, deps.DB, deps.BulkEmail, deps.SMS, deps.Dispatcher)
}
