package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, ok := ParseLevel(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	got, ok := ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, got)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "key=value")
}

func TestNewWarnsOnInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud").Debug("hidden")
	out := buf.String()
	assert.Contains(t, out, "invalid log level configured")
	assert.Contains(t, out, "configured_level=loud")
	assert.NotContains(t, out, "hidden")
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "keytutor.log")
	logger, closer, err := OpenFile(path, "info")
	require.NoError(t, err)
	logger.Info("first")
	require.NoError(t, closer.Close())

	logger, closer, err = OpenFile(path, "info")
	require.NoError(t, err)
	logger.Info("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
	assert.Contains(t, string(data), "msg=second")
}
