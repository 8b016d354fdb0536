package utils

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog logger backed by a charm logger writing to w,
// which defaults to os.Stderr. format "json" switches to JSON lines; anything
// else is the human friendly text format.
func NewLogger(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{
		ReportTimestamp: true,
		// charm and slog share the same level numbers
		Level: log.Level(level.Level()),
	}
	if format == "json" {
		opts.Formatter = log.JSONFormatter
	}
	return slog.New(log.NewWithOptions(w, opts))
}
