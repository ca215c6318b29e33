package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuchigta/mdsticker/internal/note"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join("data", "mdsticker.db"), cfg.DatabasePath())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	path := writeConfig(t, `
data_dir: /var/lib/mdsticker
index: ""
window:
  width: 320
  height: 240
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mdsticker", cfg.DataDir)
	assert.Equal(t, "mdsticker.db", cfg.Database)
	assert.Equal(t, note.Size{Width: 320, Height: 240}, cfg.Window)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.IndexPath())
	assert.Equal(t, "/var/lib/mdsticker/mdsticker.db", cfg.DatabasePath())
}

func TestLoadEnvironmentWins(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/notes")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(writeConfig(t, "data_dir: ./elsewhere\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	_, err := Load(writeConfig(t, "window: [1, 2"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "window:\n  width: 0\n"))
	assert.ErrorContains(t, err, "invalid window size")

	_, err = Load(writeConfig(t, "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "unknown log format")
}

func TestAbsolutePathsAreKept(t *testing.T) {
	cfg := Default()
	cfg.Database = "/abs/notes.db"
	assert.Equal(t, "/abs/notes.db", cfg.DatabasePath())
	assert.Equal(t, filepath.Join("data", "index.bleve"), cfg.IndexPath())
}
