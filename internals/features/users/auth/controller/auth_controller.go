package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/features/users/auth/dto"
	authModel "masingacdf_backend/internals/features/users/auth/model"
	"masingacdf_backend/internals/features/users/auth/service"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:       db,
		Validate: validator.New(),
	}
}

// Login verifies admin credentials and issues a session token.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var admin authModel.AdminUser
	err := ctrl.DB.Where("username = ? AND is_active = ?", req.Username, true).First(&admin).Error
	if err != nil {
		// Same message for unknown user and bad password
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("[WARN] failed login attempt for %s", req.Username)
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, expiresAt, err := service.GenerateToken(&admin)
	if err != nil {
		log.Printf("[ERROR] sign token for %s: %v", admin.Username, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not create session")
	}

	log.Printf("✅ admin %s logged in", admin.Username)
	return helper.Success(c, "Login successful", dto.LoginResponse{
		Token:       token,
		ExpiresAt:   expiresAt.Unix(),
		Username:    admin.Username,
		IsSuperuser: admin.IsSuperuser,
	})
}

// Logout blacklists the presented token until its natural expiry.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	tokenString, _ := c.Locals("token").(string)
	if tokenString == "" {
		return helper.Error(c, fiber.StatusBadRequest, "No token to revoke")
	}

	row := authModel.TokenBlacklist{
		Token:     tokenString,
		ExpiredAt: service.TokenExpiry(tokenString),
	}
	if err := ctrl.DB.Create(&row).Error; err != nil {
		log.Printf("[ERROR] blacklist token: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not revoke session")
	}

	return helper.Success(c, "Logged out", nil)
}

// ChangePassword lets a signed-in admin rotate their own password.
func (ctrl *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	adminID := c.Locals("admin_user_id")
	var admin authModel.AdminUser
	if err := ctrl.DB.Where("admin_user_id = ?", adminID).First(&admin).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Admin account not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.OldPassword)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not hash password")
	}

	if err := ctrl.DB.Model(&admin).Update("password_hash", string(hashed)).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not update password")
	}

	log.Printf("✅ admin %s changed password", admin.Username)
	return helper.Success(c, "Password updated", nil)
}

// Me returns the authenticated admin's profile.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	adminID := c.Locals("admin_user_id")
	var admin authModel.AdminUser
	if err := ctrl.DB.Where("admin_user_id = ?", adminID).First(&admin).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Admin account not found")
	}
	return helper.Success(c, "OK", admin)
}
