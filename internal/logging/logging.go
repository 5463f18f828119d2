package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init sets the process-wide default slog logger used for the adapter's
// own diagnostics. Output goes to stderr so it never mixes with anything
// the orchestration engine writes to stdout. Shipped log lines do not go
// through this logger.
func Init(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to
// slog.Level. Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
