package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "8320",
			Env:        "development",
			JWTSecret:  "a-development-secret",
			DBPassword: "sahkan",
		}
	}

	t.Run("development defaults pass", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("port required", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("jwt secret required", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("drive timeout defaulted", func(t *testing.T) {
		c := base()
		c.DriveTimeoutSeconds = -1
		require.NoError(t, c.Validate())
		assert.Equal(t, 30, c.DriveTimeoutSeconds)
	})
}

func TestConfigValidateProduction(t *testing.T) {
	prod := func() *Config {
		return &Config{
			Port:       "8320",
			Env:        "production",
			JWTSecret:  "a-sufficiently-long-production-secret!",
			DBPassword: "s0mething-actually-secret",
			DriveToken: "drive-token",
		}
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, prod().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		c := prod()
		c.JWTSecret = "change-me-before-production-use"
		assert.Error(t, c.Validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		c := prod()
		c.JWTSecret = "too-short"
		assert.Error(t, c.Validate())
	})

	t.Run("default db password rejected", func(t *testing.T) {
		c := prod()
		c.DBPassword = "sahkan"
		assert.Error(t, c.Validate())
	})

	t.Run("drive token required", func(t *testing.T) {
		c := prod()
		c.DriveToken = ""
		assert.Error(t, c.Validate())
	})
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("PORT", "9001")
	t.Setenv("APPROVAL_CLEAR_REMARKS_ON_APPROVE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Port)
	assert.True(t, cfg.ApprovalClearRemarksOnApprove)
	// untouched values keep their defaults
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, 30, cfg.DriveTimeoutSeconds)
}
