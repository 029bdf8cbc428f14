package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/analytics/controller"
	"masingacdf_backend/internals/features/analytics/service"
)

func AnalyticsRoutes(admin fiber.Router, db *gorm.DB, analytics *service.AnalyticsService) {
	anaCtrl := controller.NewAnalyticsController(analytics)
	expCtrl := controller.NewExportController(db)

	admin.Get("/analytics/overview", anaCtrl.Overview)
	admin.Get("/analytics/timeline", anaCtrl.Timeline)
	admin.Get("/analytics/trends", anaCtrl.Trends)
	admin.Post("/analytics/refresh", anaCtrl.Refresh)

	admin.Get("/exports/applications.csv", expCtrl.ExportCSV)
	admin.Get("/exports/applications.xlsx", expCtrl.ExportXLSX)
	admin.Get("/exports/duplicates.csv", expCtrl.ExportDuplicatesCSV)
}
