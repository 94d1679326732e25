package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/limbo/hydrobuddy/pkg/config"
	"gopkg.in/lumberjack.v2"
)

// Init installs a JSON slog handler as the default logger.
func Init(cfg config.LogConfig) {
	slog.SetDefault(New(cfg, os.Stdout))
	slog.Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

// New builds the logger without installing it. console receives output when cfg.Console is set.
func New(cfg config.LogConfig, console io.Writer) *slog.Logger {
	var writers []io.Writer
	if cfg.Console && console != nil {
		writers = append(writers, console)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(h)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
