package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/wizard")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.AllowedOrigin)
}

func TestNewServerConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := NewServerConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewServerConfig_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/wizard")
	t.Setenv("PORT", "not-a-number")
	_, err := NewServerConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = NewServerConfig()
	assert.Error(t, err)
}

func TestNewClientConfig_Defaults(t *testing.T) {
	t.Setenv("WIZARD_API_URL", "")
	cfg := NewClientConfig()
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.BaseURL)
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{Cost: 10}

	hash, err := cfg.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, cfg.Verify("hunter22", hash))
	assert.False(t, cfg.Verify("wrong", hash))
}

func TestNewPasswordConfig_CostRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "20")
	_, err := NewPasswordConfig()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "")
	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cost)
}
