package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("OWNER_ID", "owner-1")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATABASE_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverLocal, cfg.Driver)
	assert.Equal(t, "esport-calc.db", cfg.SQLitePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.False(t, cfg.R2Configured())
}

func TestLoadPostgresRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("OWNER_ID", "owner-1")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("OWNER_ID", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadValidatesPort(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("SERVER_PORT", "notaport")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("SERVER_PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)
}

func TestR2Configured(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.R2Configured())

	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example.com")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.R2Configured())
}
