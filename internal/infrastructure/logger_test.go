package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotifyetl/internal/config"
)

func TestNewLogger_Stdout(t *testing.T) {
	logger, closer, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	})
	require.NoError(t, err)
	defer closer()

	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "etl.log")

	logger, closer, err := NewLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)

	logger.Info("pipeline started", slog.String("stage", "load"))
	require.NoError(t, closer())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline started")
}

func TestRunIDHandler_InjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := WithRunID(context.Background(), "test-run-123")
	logger.InfoContext(ctx, "cleaning complete")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-run-123", entry["run_id"])
}

func TestRunIDHandler_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	logger.InfoContext(context.Background(), "no run id here")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, present := entry["run_id"]
	assert.False(t, present)
}

func TestGetRunID(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))

	ctx := ContextWithRunID(context.Background())
	assert.NotEmpty(t, GetRunID(ctx))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLogLevel(tt.input), tt.input)
	}
}

func TestInitializeTracing_Disabled(t *testing.T) {
	providers, err := InitializeTracing(false, slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, providers.Tracer)
	assert.NoError(t, providers.Shutdown(context.Background()))
}
