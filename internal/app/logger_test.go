package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for _, tc := range []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	} {
		assert.Equal(t, tc.want, parseLogLevel(&Config{LogLevel: tc.level}), "level %q", tc.level)
	}
}

func TestLogHandlerFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&Config{LogFormat: "json", LogLevel: "warn"}, &buf))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept", slog.String("k", "v"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestLogHandlerDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	handler := newLogHandler(&Config{LogFormat: "pretty"}, &buf)
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))

	_, isJSON := handler.(*slog.JSONHandler)
	assert.False(t, isJSON)
}
