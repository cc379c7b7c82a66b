// Package logger is the structured logging facade used by the pipeline and
// the CLI. The codec package itself does not log.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the subset of slog used by texsqueeze commands and the
// squeeze pipeline. Child loggers carry per-run and per-command attributes.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// slogLogger gets its level methods from the embedded *slog.Logger.
type slogLogger struct {
	*slog.Logger
}

func (l slogLogger) With(args ...any) Logger {
	return slogLogger{l.Logger.With(args...)}
}

func (l slogLogger) WithGroup(name string) Logger {
	return slogLogger{l.Logger.WithGroup(name)}
}

// New returns a Logger backed by handler.
func New(handler slog.Handler) Logger {
	return slogLogger{slog.New(handler)}
}

// Default is the stderr text logger used when no logger was installed.
func Default() Logger {
	return Text(os.Stderr, slog.LevelInfo)
}

// Text writes key=value lines, the CLI default.
func Text(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// JSON writes one object per record with the source position attached,
// for --log-format json.
func JSON(w io.Writer, level slog.Level) Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: level}))
}

// Discard drops every record. squeeze.Compress uses it when the caller
// passes no logger.
func Discard() Logger {
	return New(slog.DiscardHandler)
}

// Format picks JSON for "json" and text for any other name.
func Format(w io.Writer, format string, level slog.Level) Logger {
	if strings.EqualFold(format, "json") {
		return JSON(w, level)
	}
	return Text(w, level)
}

type ctxKey struct{}

// WithContext installs log for the commands run under ctx.
func WithContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the installed logger, or Default.
func FromContext(ctx context.Context) Logger {
	if log, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return log
	}
	return Default()
}

// ParseLevel maps --log-level names to slog levels. Matching ignores case
// and unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
