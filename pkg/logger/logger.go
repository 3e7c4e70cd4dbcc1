// Package logger provides the application-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Options controls logger initialization.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // "json" or "text"
	LogFile string // optional; when set, logs are mirrored to this file
}

// Init builds the default logger. Safe to call more than once; the last
// call wins.
func Init(opts Options) error {
	var w io.Writer = os.Stderr
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the default logger, initializing it lazily.
func Default() *slog.Logger {
	if defaultLogger == nil {
		_ = Init(Options{Level: "info", Format: "text"})
	}
	return defaultLogger
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs at ERROR level, appending err as an attribute when non-nil.
func Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	Default().Error(msg, args...)
}
