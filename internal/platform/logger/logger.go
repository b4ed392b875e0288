package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// New returns the process logger with a run_id attached so overlapping batch
// runs can be told apart in shared log sinks.
func New() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level(),
	})
	return slog.New(handler).With("run_id", uuid.NewString())
}

func level() slog.Level {
	if os.Getenv("LOG_DEBUG") == "true" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
