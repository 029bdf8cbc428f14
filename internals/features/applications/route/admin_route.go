package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	analyticsService "masingacdf_backend/internals/features/analytics/service"
	"masingacdf_backend/internals/features/applications/controller"
	notifService "masingacdf_backend/internals/features/notifications/service"
	authMw "masingacdf_backend/internals/middlewares/auth"
)

// ApplicationAdminRoutes mounts the review endpoints. The group
// already carries the session middleware; deletion additionally
// requires a superuser.
func ApplicationAdminRoutes(admin fiber.Router, db *gorm.DB, dispatcher *notifService.Dispatcher, notifier *notifService.NotificationManager, analytics *analyticsService.AnalyticsService) {
	appCtrl := controller.NewApplicationController(db, dispatcher, notifier)
	statusCtrl := controller.NewApplicationStatusController(db, dispatcher, notifier, analytics)

	admin.Get("/applications", appCtrl.List)
	admin.Get("/applications/:reference", appCtrl.Detail)
	admin.Delete("/applications/:reference", authMw.SuperuserOnly(), appCtrl.Delete)

	admin.Patch("/applications/:reference/status", statusCtrl.UpdateStatus)
	admin.Get("/applications/:reference/history", statusCtrl.History)
	admin.Post("/applications/bulk-status", statusCtrl.BulkUpdateStatus)
}
