package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/notifications/controller"
	"masingacdf_backend/internals/features/notifications/service"
)

func NotificationRoutes(admin fiber.Router, db *gorm.DB, bulk *service.BulkEmailService, sms *service.SMSService, dispatcher *service.Dispatcher) {
	ctrl := controller.NewNotificationController(db, bulk, sms, dispatcher)

	admin.Post("/notifications/bulk-email", ctrl.BulkEmail)
	admin.Post("/notifications/deadline-reminder", ctrl.DeadlineReminder)
	admin.Get("/notifications/stats", ctrl.Stats)
}
