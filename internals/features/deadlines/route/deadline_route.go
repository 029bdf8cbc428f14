package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/deadlines/controller"
)

func DeadlineRoutes(public fiber.Router, admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDeadlineController(db)

	public.Get("/deadline", ctrl.Status)

	admin.Get("/deadlines", ctrl.List)
	admin.Post("/deadlines", ctrl.Create)
	admin.Patch("/deadlines/:id", ctrl.Update)
	admin.Delete("/deadlines/:id", ctrl.Delete)
}
