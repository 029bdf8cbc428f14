package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/users/auth/controller"
	"masingacdf_backend/internals/middlewares"
)

// AuthRoutes mounts the admin session endpoints. Login sits on the
// public group behind the login rate limiter; the admin group already
// carries the session middleware.
func AuthRoutes(public fiber.Router, admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	public.Post("/auth/login", middlewares.LoginRateLimiter(), ctrl.Login)

	admin.Post("/auth/logout", ctrl.Logout)
	admin.Post("/auth/change-password", ctrl.ChangePassword)
	admin.Get("/auth/me", ctrl.Me)
}
