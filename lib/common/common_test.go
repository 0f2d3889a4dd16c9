package common

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/snapshot"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for input, expected := range tests {
		lvl, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, lvl, input)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := logOutput
	logOutput = &buf
	defer func() { logOutput = prev }()

	l := CreateLogger("wal")
	l.SetLevel(logger.WARNING)

	l.Infof("hidden %d", 1)
	l.Warningf("skipped %d lines", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  | wal        | skipped 2 lines")
}

func TestInitLoggersRepeatable(t *testing.T) {
	var buf bytes.Buffer
	prev := logOutput
	logOutput = &buf
	defer func() { logOutput = prev }()

	// obtained before the factory is installed
	l := logger.GetLogger("recovery")

	require.NoError(t, InitLoggers("warn"))
	require.NotPanics(t, func() {
		require.NoError(t, InitLoggers("error"))
	})

	l.Warningf("hidden at error level")
	l.Errorf("shown at error level")

	require.NoError(t, InitLoggers("info"))
	l.Warningf("shown at info level")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "ERROR | recovery   | shown at error level")
	assert.Contains(t, out, "WARN  | recovery   | shown at info level")

	assert.Error(t, InitLoggers("loud"))
}

func TestDefaultStoreConfig(t *testing.T) {
	cfg := DefaultStoreConfig("")
	assert.Equal(t, DefaultPath, cfg.Path)
	assert.Equal(t, "ddoc.wal", cfg.ResolvedWALPath())
	assert.NoError(t, cfg.Validate())

	cfg = DefaultStoreConfig(filepath.Join("data", "my_db.json"))
	assert.Equal(t, filepath.Join("data", "my_db.wal"), cfg.ResolvedWALPath())

	cfg.WALPath = "other.log"
	assert.Equal(t, "other.log", cfg.ResolvedWALPath())
}

func TestStoreConfigValidate(t *testing.T) {
	cfg := StoreConfig{
		Path:             "db.wal",
		SnapshotFormat:   snapshot.Format("xml"),
		SnapshotInterval: 0,
		LogLevel:         "loud",
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "same path")
	assert.Contains(t, msg, "snapshot format")
	assert.Contains(t, msg, "snapshot interval")
	assert.Contains(t, msg, "log level")
}

func TestStoreConfigString(t *testing.T) {
	cfg := DefaultStoreConfig("my_db.json")
	out := cfg.String()

	assert.True(t, strings.Contains(out, "STORAGE"))
	assert.Contains(t, out, "my_db.wal")
	assert.Contains(t, out, string(snapshot.FormatJSONPretty))
}
