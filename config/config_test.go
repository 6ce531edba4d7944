package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "edificio-admin", cfg.Service.Name)
	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Service.Port)
	assert.Equal(t, time.Minute, cfg.GetCacheTTL())
	assert.True(t, cfg.Tracing.Enabled)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.Cache.TTLSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Datos.Archivo = ""
	assert.Error(t, cfg.Validate())
}

func TestDurationHelpers(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")
	t.Setenv("READINESS_DRAIN_DELAY_SECONDS", "2")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, 2*time.Second, cfg.GetReadinessDrainDelayDuration())
}
