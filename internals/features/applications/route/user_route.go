package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/applications/controller"
	notifService "masingacdf_backend/internals/features/notifications/service"
	"masingacdf_backend/internals/middlewares"
)

// ApplicationUserRoutes mounts the public applicant endpoints.
// Write endpoints sit behind the submission rate limiter.
func ApplicationUserRoutes(api fiber.Router, db *gorm.DB, dispatcher *notifService.Dispatcher, notifier *notifService.NotificationManager) {
	appCtrl := controller.NewApplicationController(db, dispatcher, notifier)
	dupCtrl := controller.NewDuplicateController(db)
	editCtrl := controller.NewApplicationEditController(db)

	submit := middlewares.SubmissionRateLimiter()

	api.Post("/applications", submit, appCtrl.Create)
	api.Post("/applications/fast", submit, appCtrl.FastSubmit)
	api.Post("/applications/check-duplicate", dupCtrl.Check)
	api.Get("/applications/check-id/:id_number", appCtrl.CheckIDExists)

	api.Post("/applications/edit/check", editCtrl.CheckEligibility)
	api.Post("/applications/edit/load", editCtrl.GetForEdit)
	api.Put("/applications/:reference", submit, editCtrl.Update)
	api.Post("/applications/:reference/documents", submit, editCtrl.UploadDocument)

	api.Get("/applications/:reference", appCtrl.Detail)
}
