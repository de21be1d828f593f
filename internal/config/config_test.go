package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"TOKEN_KEY": "secret"}))
	require.NoError(t, err)
	assert.Equal(t, ":443", cfg.Addr)
	assert.Equal(t, "ms", cfg.DefaultLang)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.False(t, cfg.TLS())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"TOKEN_KEY":  "secret",
		"ADDR":       ":8080",
		"RATE_LIMIT": "5",
		"RATE_BURST": "junk",
		"TLS_CERT":   "server.crt",
		"TLS_KEY":    "server.key",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.True(t, cfg.TLS())
}

func TestFromEnvRequiresTokenKey(t *testing.T) {
	_, err := FromEnv(env(nil))
	assert.ErrorIs(t, err, ErrNoTokenKey)
}
