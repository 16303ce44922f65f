package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/choreclock/internal/config"
	"github.com/phrazzld/choreclock/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriterLevels(t *testing.T) {
	restoreDefault(t)

	testCases := []struct {
		level        string
		debugVisible bool
		infoVisible  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"error", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			log := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, buf)

			log.Debug("debug message")
			log.Info("info message")

			assert.Equal(t, tc.debugVisible, contains(buf, "debug message"))
			assert.Equal(t, tc.infoVisible, contains(buf, "info message"))
		})
	}
}

func TestSetupWithWriterInvalidLevel(t *testing.T) {
	restoreDefault(t)

	buf := &logger.TestLogBuffer{}
	log := logger.SetupWithWriter(config.ServerConfig{LogLevel: "verbose"}, buf)
	log.Info("after fallback")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "invalid log level configured, using default level", entries[0]["msg"])
	assert.Equal(t, "verbose", entries[0]["configured_level"])
	assert.Equal(t, "after fallback", entries[1]["msg"])
}

func TestSetupInstallsDefault(t *testing.T) {
	restoreDefault(t)

	buf := &logger.TestLogBuffer{}
	log := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)

	assert.Same(t, log, slog.Default())
}

func TestContextHelpers(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	ctx := logger.WithLogger(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, log, logger.FromContextOrDefault(ctx, fallback))

	logger.FromContextOrDefault(ctx, fallback).Info("from context", "task_id", "dishes")
	logger.AssertLogContains(t, buf, `"task_id":"dishes"`)
}

func contains(buf *logger.TestLogBuffer, s string) bool {
	entries, err := buf.Entries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e["msg"] == s {
			return true
		}
	}
	return false
}
