package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Fetcher.MaxBodyBytes)
	assert.Equal(t, 5, cfg.Fetcher.MaxRedirects)
	assert.Equal(t, 100, cfg.Scan.MaxHistory)
	assert.Equal(t, time.Hour, cfg.Monitor.TickInterval)
}

func TestLoadFetcherEnvOverrides(t *testing.T) {
	t.Setenv("FETCHER_MAX_BODY_BYTES", "2097152")
	t.Setenv("FETCHER_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("FETCHER_BURST", "2")
	t.Setenv("FETCHER_MAX_REDIRECTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2*1024*1024), cfg.Fetcher.MaxBodyBytes)
	assert.Equal(t, 0.5, cfg.Fetcher.RequestsPerSecond)
	assert.Equal(t, 2, cfg.Fetcher.Burst)
	assert.Equal(t, 3, cfg.Fetcher.MaxRedirects)
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("FETCHER_MAX_BODY_BYTES", "lots")
	t.Setenv("FETCHER_REQUESTS_PER_SECOND", "fast")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(5*1024*1024), cfg.Fetcher.MaxBodyBytes)
	assert.Equal(t, float64(2), cfg.Fetcher.RequestsPerSecond)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaults()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.Monitor.TickInterval = time.Second
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.Scan.MaxHistory = 0
	assert.Error(t, cfg.Validate())
}
