package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Format: "json", Writer: &buf})
	require.NoError(t, err)
	defer l.Close()

	l.Info().Msg("dropped")
	l.Warn().Str("note", "a").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "a", entry["note"])
	assert.Equal(t, "kept", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	l.Info().Int("opened", 3).Msg("reconcile complete")
	assert.Contains(t, buf.String(), "reconcile complete")
	assert.Contains(t, buf.String(), "opened=")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdsticker.log")
	l, err := New(Options{Format: "json", File: path})
	require.NoError(t, err)

	l.Info().Msg("written to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, "parse log level")

	_, err = New(Options{Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")
}
