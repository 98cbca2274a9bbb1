package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud", OutputPaths: []string{"stdout"}})
	assert.Error(t, err)
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger, err := New(Config{Level: level, OutputPaths: []string{"stdout"}})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewWritesServiceField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktop.log")
	cfg := DefaultConfig()
	cfg.OutputPaths = []string{path}

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Component("kernel").Info("Window opened", zap.String("window_id", "win_1"))
	logger.Debug("below level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"service":"spatialos"`)
	assert.Contains(t, out, `"logger":"kernel"`)
	assert.Contains(t, out, `"window_id":"win_1"`)
	assert.Contains(t, out, `"timestamp"`)
	assert.NotContains(t, out, "below level")
}

func TestProductionSamplesRepeatedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktop.log")
	cfg := DefaultConfig()
	cfg.OutputPaths = []string{path}
	cfg.SampleBurst = 2

	logger, err := New(cfg)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		logger.Info("frame late")
	}
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// First 2 pass, then every 2nd of the remaining 8
	assert.Equal(t, 6, strings.Count(string(data), "frame late"))
}

func TestDefectPanicsInDevelopment(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	logger := &Logger{Logger: zap.New(core, zap.Development())}

	assert.Panics(t, func() {
		logger.Defect("non-finite body", errors.New("nan"))
	})
}

func TestDefectLogsInProduction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &Logger{Logger: zap.New(core)}

	assert.NotPanics(t, func() {
		logger.Defect("non-finite body", errors.New("nan"), zap.String("window_id", "win_1"))
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DPanicLevel, entries[0].Level)
	assert.Equal(t, "win_1", entries[0].ContextMap()["window_id"])
	assert.Equal(t, "nan", entries[0].ContextMap()["error"])
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := (&Logger{Logger: zap.New(core)}).Component("kernel")

	logger.Info("booted")
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "kernel", logs.All()[0].LoggerName)
}

func TestWithKeepsWrapper(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := (&Logger{Logger: zap.New(core)}).With(zap.String("connection_id", "c1"))

	logger.Component("ws").Info("connected")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ws", entry.LoggerName)
	assert.Equal(t, "c1", entry.ContextMap()["connection_id"])
}
