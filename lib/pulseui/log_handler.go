// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries one slog record into the model for the status
// bar.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// logRecordFadeMsg clears the status bar message after a delay. seq
// identifies which message the fade belongs to, so a newer message is
// not cleared early.
type logRecordFadeMsg struct{ seq int }

// logRecordFadeDelay is how long a log message stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// sender is the part of tea.Program the handler needs.
type sender interface {
	Send(tea.Msg)
}

// TUILogHandler is a slog.Handler that delivers records into a running
// bubbletea program, where the model shows them in the status bar.
// Writing to stderr would corrupt the alt-screen, so the TUI installs
// this handler instead.
//
// Records arriving before SetProgram are dropped. Handlers derived via
// WithAttrs and WithGroup share the program pointer with their parent.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[sender]
	attrs   []slog.Attr
	group   string
}

// NewTUILogHandler creates a handler delivering records at or above
// level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[sender]{},
	}
}

// SetProgram starts delivery to program. Safe from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.setSender(program)
}

func (handler *TUILogHandler) setSender(target sender) {
	handler.program.Store(&target)
}

// Enabled implements slog.Handler.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle implements slog.Handler. The summary reads
// "message (key=value, ...)".
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	target := handler.program.Load()
	if target == nil {
		return nil
	}

	parts := make([]string, 0, len(handler.attrs)+record.NumAttrs())
	for _, attr := range handler.attrs {
		parts = append(parts, formatAttr(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		if handler.group != "" {
			attr.Key = handler.group + "." + attr.Key
		}
		parts = append(parts, formatAttr(attr))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	(*target).Send(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

func formatAttr(attr slog.Attr) string {
	return fmt.Sprintf("%s=%s", attr.Key, attr.Value.Resolve())
}

// WithAttrs implements slog.Handler.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	for _, attr := range attrs {
		if handler.group != "" {
			attr.Key = handler.group + "." + attr.Key
		}
		derived.attrs = append(derived.attrs, attr)
	}
	return &derived
}

// WithGroup implements slog.Handler. Group names prefix attribute keys
// with dots.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	if handler.group != "" {
		name = handler.group + "." + name
	}
	derived.group = name
	return &derived
}
