package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures logging behavior.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewLogger builds a slog.Logger writing text or JSON records.
func NewLogger(options Options) *slog.Logger {
	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}

	handlerOptions := &slog.HandlerOptions{Level: ParseLevel(options.Level)}
	if strings.ToLower(options.Format) == "json" {
		return slog.New(slog.NewJSONHandler(writer, handlerOptions))
	}
	return slog.New(slog.NewTextHandler(writer, handlerOptions))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}
