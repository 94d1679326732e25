package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/limbo/hydrobuddy/pkg/config"
	"github.com/limbo/hydrobuddy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("whatever"))
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "hydro.log")
	log := logger.New(config.LogConfig{Level: "info", Console: true, File: file, MaxSizeMB: 1}, &console)

	log.Debug("hidden")
	log.Info("goal achieved", slog.Int("streak", 3))

	assert.Contains(t, console.String(), `"msg":"goal achieved"`)
	assert.NotContains(t, console.String(), "hidden")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"streak":3`)
}
