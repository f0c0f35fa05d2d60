package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.UseOAuth())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FUELCHECK_BASE_URL", "http://localhost:1234/fuel")
	t.Setenv("FUELCHECK_API_KEY", "key")
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("FUELCHECK_TIMEOUT", "3s")
	t.Setenv("DB_PATH", "/tmp/fuel.db")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "http://localhost:1234/fuel", cfg.BaseURL)
	assert.Equal(t, DefaultAuthURL, cfg.AuthURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.True(t, cfg.UseOAuth())
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/fuel.db", cfg.DBPath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("FUELCHECK_TIMEOUT", "soon")
	t.Setenv("PORT", "-1")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 8080, cfg.Port)
}
