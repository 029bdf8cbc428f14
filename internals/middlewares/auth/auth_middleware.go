package auth

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"masingacdf_backend/internals/configs"
	helper "masingacdf_backend/internals/helpers"

	authModel "masingacdf_backend/internals/features/users/auth/model"
)

// AdminAuthMiddleware guards the admin route group. It expects a
// bearer token issued by the login endpoint, rejects blacklisted
// tokens, and loads the admin account into locals.
func AdminAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, err.Error())
		}

		// Revoked tokens stay rejected until they expire out of the table
		var blacklisted authModel.TokenBlacklist
		if err := db.Where("token = ?", tokenString).First(&blacklisted).Error; err == nil {
			log.Println("[WARN] blacklisted token used")
			return helper.Error(c, fiber.StatusUnauthorized, "Token has been revoked")
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		sub, _ := claims["sub"].(string)
		adminID, err := uuid.Parse(sub)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid token subject")
		}

		var admin authModel.AdminUser
		if err := db.Where("admin_user_id = ? AND is_active = ?", adminID, true).First(&admin).Error; err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Admin account not found or inactive")
		}

		c.Locals("admin_user_id", admin.AdminUserID)
		c.Locals("username", admin.Username)
		c.Locals("is_superuser", admin.IsSuperuser)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

// SuperuserOnly sits after AdminAuthMiddleware on destructive routes.
func SuperuserOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSuper, _ := c.Locals("is_superuser").(bool)
		if !isSuper {
			return helper.Error(c, fiber.StatusForbidden, "Superuser access required")
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(configs.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().After(time.Unix(int64(exp), 0)) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Token expired")
		}
	}

	return claims, nil
}
