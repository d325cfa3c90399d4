package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "jobsite.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 600*time.Millisecond, cfg.Autosave.Delay())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOBSITE_SERVER_PORT", "9090")
	t.Setenv("JOBSITE_TRANSPORT_MODE", "http")
	t.Setenv("JOBSITE_AUTH_ENABLED", "true")
	t.Setenv("JOBSITE_DB_PATH", "/tmp/test.db")
	t.Setenv("JOBSITE_LOG_LEVEL", "debug")
	t.Setenv("JOBSITE_AUTOSAVE_DELAY_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 250*time.Millisecond, cfg.Autosave.Delay())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 7070
db:
  driver: sqlite
  path: from-file.db
autosave:
  delay_ms: 900
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("JOBSITE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "from-file.db", cfg.DB.Path)
	require.Equal(t, 900*time.Millisecond, cfg.Autosave.Delay())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o644))
	t.Setenv("JOBSITE_CONFIG_PATH", path)
	t.Setenv("JOBSITE_SERVER_PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 6060, cfg.Server.Port)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("JOBSITE_TRANSPORT_MODE", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("JOBSITE_DB_DRIVER", "postgres")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JOBSITE_DB_DSN", "postgres://localhost/jobsite")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DB.Driver)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("JOBSITE_SERVER_PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}
