package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "8008", cfg.Server.Port)
	require.Equal(t, ":memory:", cfg.Database.Path)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, ":8008", cfg.Addr())
	require.Empty(t, cfg.NATS.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PM_SERVER_PORT", "9090")
	t.Setenv("PM_AUTH_SECRET", "s3cret")
	t.Setenv("PM_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "s3cret", cfg.Auth.Secret)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pm.yml")
	data := []byte("database:\n  path: " + filepath.Join(dir, "pm.db") + "\nlog:\n  format: json\nseed:\n  demo: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "pm.db"), cfg.Database.Path)
	require.Equal(t, "json", cfg.Log.Format)
	require.True(t, cfg.Seed.Demo)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.TokenTTL = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.NATS.URL = "nats://localhost:4222"
	cfg.NATS.Subject = ""
	require.Error(t, cfg.Validate())
}
