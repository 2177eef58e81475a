package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DIET_API_URL", "DIET_API_TIMEOUT", "JWT_SECRET_KEY",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_ENABLED",
	"RATE_LIMIT", "RATE_LIMIT_WINDOW", "COOKIE_SECURE", "DEFAULT_TIME_ZONE",
	"CHART_WIDTH", "CHART_HEIGHT",
}

// clearConfigEnv blanks every key so a developer's .env does not leak in.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.DietAPIURL)
	assert.Equal(t, 30*time.Second, cfg.DietAPITimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "UTC", cfg.DefaultTimeZone)
	assert.Equal(t, 800, cfg.ChartWidth)
	assert.Equal(t, 400, cfg.ChartHeight)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("DIET_API_URL", "http://diet-api:8000/")
	t.Setenv("DIET_API_TIMEOUT", "45")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_WINDOW", "90s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DEFAULT_TIME_ZONE", "Asia/Taipei")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://diet-api:8000", cfg.DietAPIURL)
	assert.Equal(t, 45*time.Second, cfg.DietAPITimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 90*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "Asia/Taipei", cfg.DefaultTimeZone)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	clearConfigEnv(t)
	require.NoError(t, os.Unsetenv("PORT"))

	require.NoError(t, os.WriteFile(".env", []byte("PORT=7070\n"), 0o600))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Fail: Non-numeric rate limit", "RATE_LIMIT", "lots"},
		{"Fail: Bad duration", "RATE_LIMIT_WINDOW", "soon"},
		{"Fail: Bad boolean", "COOKIE_SECURE", "maybe"},
		{"Fail: Unknown time zone", "DEFAULT_TIME_ZONE", "Mars/Base"},
		{"Fail: Non-positive timeout", "DIET_API_TIMEOUT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}
