package auth

import (
	"testing"

	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T, secret string) {
	t.Helper()
	old := config.GetConfig()
	config.SetConfig(&config.Config{
		JWT: config.JWTConfig{
			SecretKey:           secret,
			AccessExpireSeconds: 3600,
			Issuer:              "notification-api",
		},
	})
	t.Cleanup(func() { config.SetConfig(old) })
}

func TestGenerateAndParseToken(t *testing.T) {
	setupConfig(t, "test-secret")

	token, err := GenerateToken(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "notification-api", claims.Issuer)
	assert.NotEmpty(t, claims.Id)
}

func TestParseTokenWrongSecret(t *testing.T) {
	setupConfig(t, "test-secret")

	token, err := GenerateToken(1, "user")
	require.NoError(t, err)

	config.GetConfig().JWT.SecretKey = "other-secret"
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	setupConfig(t, "test-secret")
	config.GetConfig().JWT.AccessExpireSeconds = -10

	token, err := GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	setupConfig(t, "test-secret")

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
