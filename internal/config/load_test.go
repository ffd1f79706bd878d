package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for a valid config.
// t.Setenv disables parallelism for these tests, which also keeps the
// process-wide environment mutations from interleaving.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TANGO_DATABASE_URL", "postgres://localhost:5432/tango?sslmode=disable")
	t.Setenv("TANGO_AUTH_JWT_SECRET", "test-secret-key-thats-32-characters-long")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMins)
	assert.Equal(t, 7*24*60, cfg.Auth.RefreshLifetimeMins)
	assert.Equal(t, 0.0, cfg.Study.DesiredRetention, "scheduler tuning is unset by default")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TANGO_SERVER_PORT", "9090")
	t.Setenv("TANGO_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TANGO_DATABASE_DRIVER", "sqlite")
	t.Setenv("TANGO_DATABASE_URL", "/tmp/tango.db")
	t.Setenv("TANGO_STUDY_DESIRED_RETENTION", "0.85")
	t.Setenv("TANGO_STUDY_MAXIMUM_INTERVAL_DAYS", "180")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/tango.db", cfg.Database.URL)
	assert.Equal(t, 0.85, cfg.Study.DesiredRetention)
	assert.Equal(t, 180, cfg.Study.MaximumIntervalDay)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database URL", func(t *testing.T) {
		t.Setenv("TANGO_AUTH_JWT_SECRET", "test-secret-key-thats-32-characters-long")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("short JWT secret", func(t *testing.T) {
		t.Setenv("TANGO_DATABASE_URL", "postgres://localhost/tango")
		t.Setenv("TANGO_AUTH_JWT_SECRET", "too-short")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown database driver", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TANGO_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TANGO_SERVER_LOG_LEVEL", "loud")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("retention out of range", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TANGO_STUDY_DESIRED_RETENTION", "1.5")

		_, err := Load()
		require.Error(t, err)
	})
}
