package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		" DEBUG ":  slog.LevelDebug,
		"info":     slog.LevelInfo,
		"warn":     slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"":         slog.LevelInfo,
		"nonsense": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStructuredLogger(&buf, "toolbard", "v1.2.3", "warn")

	l.Info("dropped")
	l.Warn("kept", "option", "messages")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "toolbard", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.Equal(t, "messages", rec["option"])
	assert.NotContains(t, rec, "source")
}

func TestNewLogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogLogger(NewStructuredLogger(&buf, "toolbard", "dev", "debug"), slog.LevelError)

	l.Print("http: TLS handshake error")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "http: TLS handshake error", rec["msg"])
}
