package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.NotEmpty(t, cfg.SessionSecret)
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.CSRFDisabled)
	})

	t.Run("Environment Variables", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("APP_ENV", "production")
		t.Setenv("DATABASE_URL", "sqlite://warbler.db")
		t.Setenv("CSRF_DISABLED", "true")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, "sqlite://warbler.db", cfg.DatabaseURL)
		assert.True(t, cfg.IsProduction())
		assert.True(t, cfg.CSRFDisabled)
	})
}
