//go:build unit

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"parking-orchestrator/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONUsesConfiguredTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, config.LogConfig{
		Level:      "info",
		TimeZone:   "UTC",
		TimeFormat: "2006-01-02",
	}, true)

	l.Debug("hidden")
	l.Info("booking done", "key", "k-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking done", entry["msg"])
	assert.Equal(t, "k-1", entry["key"])
	assert.Len(t, entry["time"], len("2006-01-02"))
}
