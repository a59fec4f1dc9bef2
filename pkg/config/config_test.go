package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5, cfg.AWS.MaxAttempts)
	assert.Equal(t, "standard", cfg.AWS.RetryMode)
	assert.Equal(t, "skip", cfg.Normalize.MissingField)
	assert.Equal(t, "https://api.checklyhq.com", cfg.Checkly.BaseURL)
	assert.Equal(t, "https://api.statuscake.com", cfg.StatusCake.BaseURL)
	assert.Equal(t, 100, cfg.StatusCake.PageSize)
	assert.Equal(t, "us-east-1", cfg.Minio.Region)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CLOUDINFO_AWS_REGION", "eu-central-1")
	t.Setenv("CLOUDINFO_CHECKLY_API_KEY", "cu_123")
	t.Setenv("CLOUDINFO_NORMALIZE_MISSING_FIELD", "error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.Equal(t, "cu_123", cfg.Checkly.APIKey)
	assert.Equal(t, "error", cfg.Normalize.MissingField)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "cloudinfo")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := []byte(`
log:
  level: debug
  file: /tmp/cloudinfo.log
aws:
  region: ap-southeast-2
  max_attempts: 9
statuscake:
  api_key: sc_abc
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cloudinfo.yaml"), content, 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/cloudinfo.log", cfg.Log.File)
	assert.Equal(t, "ap-southeast-2", cfg.AWS.Region)
	assert.Equal(t, 9, cfg.AWS.MaxAttempts)
	assert.Equal(t, "sc_abc", cfg.StatusCake.APIKey)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minio:\n  url: http://localhost:9000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Minio.URL)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
