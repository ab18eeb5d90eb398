package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("EXPORT_FORMAT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "Europe/Berlin", cfg.Export.Timezone)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
export:
  format: ics
  directory: out
queue:
  workers: 2
  timeout: 30s
database:
  dsn: "file:roster.db"
`), 0o644))

	t.Setenv("QUEUE_WORKERS", "8")
	t.Setenv("EXPORT_FORMAT", "")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ics", cfg.Export.Format)
	assert.Equal(t, "out", cfg.Export.Directory)
	assert.Equal(t, 8, cfg.Queue.Workers, "env wins over file")
	assert.Equal(t, 30*time.Second, cfg.Queue.Timeout)
	assert.Equal(t, "file:roster.db", cfg.Database.DSN)
	assert.Equal(t, "Europe/Berlin", cfg.Export.Timezone, "defaults survive")
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Format = "pdf"
	cfg.Queue.Workers = 0
	cfg.Mail.Host = "smtp.example.org"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "export.format")
	assert.Contains(t, err.Error(), "queue.workers")
	assert.Contains(t, err.Error(), "mail.from")
}
