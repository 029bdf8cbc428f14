package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masingacdf_backend/internals/configs"
	authModel "masingacdf_backend/internals/features/users/auth/model"
)

func TestGenerateToken_ClaimsAndExpiry(t *testing.T) {
	configs.JWTSecret = "test-secret"

	admin := &authModel.AdminUser{
		AdminUserID: uuid.New(),
		Username:    "clerk",
		IsSuperuser: true,
	}

	signed, expiresAt, err := GenerateToken(admin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, 5*time.Second)

	token, err := jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, admin.AdminUserID.String(), claims["sub"])
	assert.Equal(t, "clerk", claims["username"])
	assert.Equal(t, true, claims["is_superuser"])
}

func TestTokenExpiry(t *testing.T) {
	configs.JWTSecret = "test-secret"

	admin := &authModel.AdminUser{AdminUserID: uuid.New(), Username: "clerk"}
	signed, expiresAt, err := GenerateToken(admin)
	require.NoError(t, err)

	assert.WithinDuration(t, expiresAt, TokenExpiry(signed), time.Second)

	// Garbage tokens still blacklist for a full TTL
	fallback := TokenExpiry("not-a-token")
	assert.WithinDuration(t, time.Now().Add(TokenTTL), fallback, 5*time.Second)
}
