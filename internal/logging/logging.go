// Package logging configures colored structured logging with tint.
//
// Background fetches (lookups, statistics) log failures here and degrade
// silently; only mutations surface errors to the user.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by the
// LOG_LEVEL env var (default: INFO) and returns the logger.
func Setup() *slog.Logger {
	return SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) *slog.Logger {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
