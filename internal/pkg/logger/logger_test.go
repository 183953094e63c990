package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"parceltrack/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for in, expected := range tests {
		assert.Equal(t, expected, logger.ParseLevel(in), "level %q", in)
	}
}

func TestNewWithWriter_WritesJSONAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info("dropped")
	log.Warn("parcel scan rejected", "trackingNumber", "COURIER-1-2")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "parcel scan rejected", entry["msg"])
	assert.Equal(t, "COURIER-1-2", entry["trackingNumber"])
	assert.Equal(t, "WARN", entry["level"])
}
