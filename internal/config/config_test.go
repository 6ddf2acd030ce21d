package config

import (
	"testing"
	"time"

	"goincome/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"FMP_API_KEY", "FMP_BASE_URL", "SYMBOL", "FETCH_TIMEOUT", "STATEMENTS_FILE",
		"PORT", "API_PORT", "GIN_MODE", "SESSION_TTL", "SURFACE_LOAD_ERRORS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FMP_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Source.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, "AAPL", cfg.Source.Symbol)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.APIPort)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Dashboard.SurfaceLoadErrors)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FMP_API_KEY", "secret")
	t.Setenv("SYMBOL", "MSFT")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("SURFACE_LOAD_ERRORS", "true")
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "MSFT", cfg.Source.Symbol)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout, "invalid durations fall back to the default")
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Dashboard.SurfaceLoadErrors)
}

func TestLoadRequiresKeyWithoutFile(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("STATEMENTS_FILE", "testdata/statements.xlsx")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Source.APIKey)
}
