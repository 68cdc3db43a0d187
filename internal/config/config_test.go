package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stock-service/internal/config"
)

func setRequiredAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_JWT_ISSUER", "https://stock.example.com")
	t.Setenv("AUTH_JWT_AUDIENCE", "stock-frontend")
}

func TestLoadRequiresTokenSettings(t *testing.T) {
	for _, missing := range []string{"AUTH_JWT_SECRET", "AUTH_JWT_ISSUER", "AUTH_JWT_AUDIENCE"} {
		t.Run(missing, func(t *testing.T) {
			setRequiredAuthEnv(t)
			t.Setenv(missing, "")

			_, err := config.Load()
			assert.ErrorIs(t, err, config.ErrMissingAuthConfig)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredAuthEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.Auth.RefreshRequireFreshToken)
	assert.True(t, cfg.Auth.ValidateIssuerAudience)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredAuthEnv(t)
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "1")
	t.Setenv("AUTH_REFRESH_REQUIRE_FRESH_TOKEN", "true")
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Auth.TokenTTLHours)
	assert.True(t, cfg.Auth.RefreshRequireFreshToken)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}
