// Package logger builds the slog logger used by long-running commands.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a text-handler logger at the given level. Unrecognized levels
// fall back to info.
func New(level string) *slog.Logger {
	lvl := new(slog.LevelVar)

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "info":
		lvl.Set(slog.LevelInfo)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
