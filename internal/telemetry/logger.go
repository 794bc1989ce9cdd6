package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger installs a text logger on stderr as the default logger.
// Per-measurement progress is only shown at debug level.
func InitLogger(verbose bool) *slog.Logger {
	return initLogger(os.Stderr, verbose)
}

func initLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LogError logs an error message.
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}
