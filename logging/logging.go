package logging

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Options selects the handler, level and destination of a logger.
type Options struct {
	Level      string
	Format     string
	Output     string
	Attributes map[string]string
}

// New builds a slog logger from opts. Unknown levels fall back to info and unknown
// formats to JSON.
func New(opts Options) *slog.Logger {
	return slog.New(NewHandler(writerFor(opts.Output), opts))
}

// NewHandler is New without the output lookup, used by tests to capture records.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "text":
		handler = slog.NewTextHandler(w, hopts)
	default:
		handler = slog.NewJSONHandler(w, hopts)
	}
	if len(opts.Attributes) > 0 {
		handler = handler.WithAttrs(attrs(opts.Attributes))
	}
	return handler
}

// ParseLevel converts a config level name to a slog.Level.
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

func writerFor(output string) io.Writer {
	if output == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// attrs sorts by key so handler output is stable.
func attrs(m map[string]string) []slog.Attr {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.String(k, m[k]))
	}
	return out
}
