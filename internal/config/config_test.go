package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxResumeBytes())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 7, cfg.RateLimit.MaxRequests)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	_, err := Load()
	assert.Error(t, err)
}
