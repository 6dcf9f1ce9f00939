// Package plog provides the injected structured logger used throughout
// pstnexec (spec §9: "explicit injected loggers... default being a silent
// implementation"). Built on log/slog, the pack's own logging choice —
// AleutianLocal's services import log/slog pervasively; see DESIGN.md.
package plog

import (
	"io"
	"log/slog"
)

// Silent returns a *slog.Logger that discards everything, the default a
// caller gets when it does not wire in its own handler.
func Silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a text-handler logger writing to w at the given level,
// annotated with a run correlation id (spec §9 / SPEC_FULL §12's
// google/uuid wiring for "log correlation").
func New(w io.Writer, level slog.Level, runID string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run_id", runID)
}
