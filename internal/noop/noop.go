// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package noop provides do-nothing implementations of ambient interfaces.
package noop

import (
	"context"
	"log/slog"
)

// LogHandler is a [slog.Handler] which discards every record.
type LogHandler struct{}

// Enabled implements the [slog.Handler] interface. It is always false so
// callers skip building attributes.
func (LogHandler) Enabled(context.Context, slog.Level) bool { return false }

// Handle implements the [slog.Handler] interface.
func (LogHandler) Handle(context.Context, slog.Record) error { return nil }

// WithAttrs implements the [slog.Handler] interface.
func (h LogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

// WithGroup implements the [slog.Handler] interface.
func (h LogHandler) WithGroup(string) slog.Handler { return h }

// Logger returns a [slog.Logger] backed by [LogHandler].
func Logger() *slog.Logger {
	return slog.New(LogHandler{})
}
