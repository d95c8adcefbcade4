package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/fire-spread-service/internal/config"
)

// NewLogger builds the process logger on stdout from LOG_LEVEL and LOG_FORMAT
// and installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewStderrLogger is NewLogger for commands whose stdout carries data: same
// level and format, written to stderr.
func NewStderrLogger(cfg *config.Config) *slog.Logger {
	return newLoggerTo(os.Stderr, cfg)
}

func newLoggerTo(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: enabledLevel(NewLogger(cfg).Handler())}
	var logger *slog.Logger
	if strings.EqualFold(cfg.LogFormat, "text") {
		logger = slog.New(slog.NewTextHandler(w, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(w, opts))
	}
	slog.SetDefault(logger)
	return logger
}

// enabledLevel returns the lowest level h accepts.
func enabledLevel(h slog.Handler) slog.Level {
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if h.Enabled(context.Background(), l) {
			return l
		}
	}
	return slog.LevelError
}
