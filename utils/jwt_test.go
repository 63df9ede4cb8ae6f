package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/config"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTokenTTL = 15 * time.Minute

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTokenTTL = 15 * time.Minute

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "other-secret"
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTokenTTL = -time.Minute

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := ParseAccessToken("not-a-token")
	assert.Error(t, err)
}
