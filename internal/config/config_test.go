package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads values from the yaml file", func(t *testing.T) {
		// Given: a config file overriding a few keys
		path := writeConfig(t, `
log-level: debug
http-port: "9191"
socket-port: "8181"
allowed-origins:
  - http://localhost:3000
session:
  finished-ttl: 10m
redis:
  enabled: true
  host: redis
  results-limit: 20
`)

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and the rest keep their defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9191", conf.HTTPPort)
		assert.Equal(t, "8181", conf.SocketPort)
		assert.Equal(t, []string{"http://localhost:3000"}, conf.AllowedOrigins)
		assert.Equal(t, 10*time.Minute, conf.Session.FinishedTTL)
		assert.Equal(t, time.Minute, conf.Session.SweepInterval)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 20, conf.Redis.ResultsLimit)
		assert.Equal(t, 2*time.Second, conf.Redis.Timeout)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"9191\"\n")
		t.Setenv("HTTP_PORT", "7070")
		t.Setenv("REDIS_TTL", "30m")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, 30*time.Minute, conf.Redis.TTL)
	})

	t.Run("Falls back to defaults without a file", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, 5*time.Minute, conf.Session.FinishedTTL)
		assert.Empty(t, conf.AllowedOrigins)
	})

	t.Run("MustLoad panics on a broken file", func(t *testing.T) {
		path := writeConfig(t, "log-level: [unterminated\n")

		assert.Panics(t, func() { MustLoad(path) })
	})
}
