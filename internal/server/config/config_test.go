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
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: /tmp/wkmetrics-test.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60, cfg.API.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.API.RateLimit.Window)
	assert.Equal(t, "/metrics", cfg.API.Metrics.Path)
	assert.Equal(t, 5*time.Minute, cfg.API.Auth.CacheTTL)
	assert.Equal(t, "memory", cfg.API.Auth.Cache)
	assert.Equal(t, 86400, cfg.API.CORS.MaxAge)
	assert.Equal(t, 10*time.Second, cfg.Dashboard.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Notify.Cooldown)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
database:
  driver: postgres
  dsn: postgres://localhost/wkmetrics
dashboard:
  function_endpoint: https://edge.example.com/dashboard
  timeout: 5s
api:
  auth:
    enabled: true
    cache: redis
    redis_addr: localhost:6379
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://edge.example.com/dashboard", cfg.Dashboard.FunctionEndpoint)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.Timeout)
	assert.True(t, cfg.API.Auth.Enabled)
	assert.Equal(t, "redis", cfg.API.Auth.Cache)
}

func TestLoadConfigRejectsMissingDatabase(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownAuthCache(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: /tmp/wkmetrics-test.db
api:
  auth:
    enabled: true
    cache: memcached
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsMissingTLSFiles(t *testing.T) {
	path := writeConfig(t, `
server:
  tls:
    enabled: true
database:
  driver: sqlite
  dsn: /tmp/wkmetrics-test.db
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
