package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		Port:      "8480",
		JWTSecret: "a-sufficiently-long-development-secret-key",
		Env:       "development",
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	t.Run("missing port", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, baseConfig().Validate())
	})
}

func TestValidate_ProductionHardening(t *testing.T) {
	t.Run("default secret rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		cfg.DBPassword = "strong-password-123"
		assert.Error(t, cfg.Validate())
	})

	t.Run("short secret rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		cfg.DBPassword = "strong-password-123"
		assert.Error(t, cfg.Validate())
	})

	t.Run("weak db password rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "a-sufficiently-long-production-secret-key!"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("hardened config accepted", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "a-sufficiently-long-production-secret-key!"
		cfg.DBPassword = "strong-password-123"
		cfg.DBSSLMode = "require"
		assert.NoError(t, cfg.Validate())
	})
}
