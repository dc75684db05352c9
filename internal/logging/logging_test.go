package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("", &buf)
	require.NoError(t, err)

	l.Info("flow transition", "from", "MainMenu", "to", "Signing")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "flow transition", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "Signing", rec["to"])
}

func TestSetRawLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("", &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	assert.Zero(t, buf.Len(), "info is the default level")

	l.SetRawLevel("debug")
	assert.Equal(t, slog.LevelDebug, l.Level())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	l.SetRawLevel("nonsense")
	assert.Equal(t, slog.LevelInfo, l.Level())

	l.SetLevel(slog.LevelError)
	l.Warn("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "nanoui.log")
	var buf bytes.Buffer
	l, err := New(path, &buf)
	require.NoError(t, err)

	l.Warn("disk and buffer")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk and buffer")
	assert.Contains(t, buf.String(), "disk and buffer")
}

func TestNew_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := New(filepath.Join(blocker, "nanoui.log"), nil)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nowhere")
	assert.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("trace")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "trace"))
}
