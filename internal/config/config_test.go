package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("AUDIT_CACHE_TTL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "itsm-routing", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Audit.CacheTTL())
	assert.True(t, cfg.Audit.DefaultEnabled)
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUDIT_CACHE_TTL_SECONDS", "0")
	t.Setenv("AUDIT_DEFAULT_ENABLED", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, time.Duration(0), cfg.Audit.CacheTTL())
	assert.False(t, cfg.Audit.DefaultEnabled)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}
