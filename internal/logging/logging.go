// Package logging configures the process-wide slog default.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text handler on the slog default. Verbose enables debug
// level output. If w is nil, os.Stderr is used.
func Setup(verbose bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// New returns a logger tagged with a component attribute.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
