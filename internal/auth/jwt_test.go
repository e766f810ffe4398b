package auth_test

import (
	"testing"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)

	token, err := manager.Generate("user-1", []string{"wallet:read", "wallet:write"})
	require.NoError(t, err)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "patentvault", claims.Issuer)
	assert.True(t, claims.HasScope("wallet:write"))
	assert.False(t, claims.HasScope("admin"))
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)
	other := auth.NewJWTManager("other-secret", "patentvault", time.Hour)

	token, err := manager.Generate("user-1", nil)
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", -time.Minute)

	token, err := manager.Generate("user-1", nil)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)

	_, err := manager.Validate("not.a.token")
	require.Error(t, err)
}
