// Package logging provides the structured, leveled logger used by
// every pipeline stage and the CLI entrypoint: a log/slog.Logger
// backed by a handler that colorizes level names (green for info,
// yellow for warn, red for error, cyan for debug).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
)

// New builds a *slog.Logger at the given level, writing colorized
// text records to w.
func New(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(&colorHandler{level: level, w: w})
}

// NewDefault builds a logger at the given level writing to stderr.
func NewDefault(level slog.Level) *slog.Logger {
	return New(level, os.Stderr)
}

type colorHandler struct {
	level slog.Level
	w     io.Writer
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	levelText := levelColor(r.Level).Sprint(r.Level.String())
	line := fmt.Sprintf("%s %s %s", r.Time.Format("2006-01-02T15:04:05.000Z07:00"), levelText, r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{level: h.level, w: h.w, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	// Groups are not used anywhere in this pipeline; attributes are
	// always logged flat, so grouping is a no-op rather than an
	// unsupported operation.
	return h
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed)
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error")
// to a slog.Level, defaulting to Info for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch s {
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
