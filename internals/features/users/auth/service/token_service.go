package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"masingacdf_backend/internals/configs"
	authModel "masingacdf_backend/internals/features/users/auth/model"
)

// TokenTTL is how long an admin session token stays valid.
const TokenTTL = 24 * time.Hour

// GenerateToken signs a session JWT for an admin account.
func GenerateToken(admin *authModel.AdminUser) (string, time.Time, error) {
	expiresAt := time.Now().Add(TokenTTL)

	claims := jwt.MapClaims{
		"sub":          admin.AdminUserID.String(),
		"username":     admin.Username,
		"is_superuser": admin.IsSuperuser,
		"iat":          time.Now().Unix(),
		"exp":          expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// TokenExpiry reads the exp claim without verifying the signature.
// Used on logout to store the blacklist row with the right TTL.
func TokenExpiry(tokenString string) time.Time {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Now().Add(TokenTTL)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Now().Add(TokenTTL)
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Now().Add(TokenTTL)
}
