package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8002, cfg.Server.Port)
	assert.Equal(t, "/api/chat", cfg.Server.BasePath)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, "*", cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: 9100
  env: production
database:
  url: postgres://chat:chat@db:5432/peerchat
redis:
  url: redis://cache:6379/0
services:
  directory_service_url: http://directory:8001
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "/api/chat", cfg.Server.BasePath)
	assert.Equal(t, "postgres://chat:chat@db:5432/peerchat", cfg.Database.URL)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "http://directory:8001", cfg.Services.DirectoryServiceURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600))

	t.Setenv("PORT", "9200")
	t.Setenv("DATABASE_URL", "postgres://env-wins")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "postgres://env-wins", cfg.Database.URL)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
