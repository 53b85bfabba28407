// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// avatarInitial is the single uppercase letter shown in an author's
// avatar badge.
func avatarInitial(username string) string {
	first, size := utf8.DecodeRuneInString(username)
	if size == 0 || first == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(first))
}

// renderAvatar draws the author badge: the initial on an accent
// background.
func renderAvatar(theme tui.Theme, username string) string {
	return lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Background(theme.Accent).
		Bold(true).
		Render(" " + avatarInitial(username) + " ")
}

// formatTimestamp renders recent times relative to now and older ones
// as a local calendar date.
func formatTimestamp(timestamp, now time.Time) string {
	if timestamp.IsZero() {
		return ""
	}
	elapsed := now.Sub(timestamp)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed/time.Hour))
	default:
		return timestamp.Local().Format("Jan 2, 2006")
	}
}

// likeMarker renders the heart and count for a like control.
func likeMarker(theme tui.Theme, liked bool, count int) string {
	if liked {
		return lipgloss.NewStyle().Foreground(theme.Liked).Bold(true).
			Render(fmt.Sprintf("♥ %d", count))
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).
		Render(fmt.Sprintf("♡ %d", count))
}

// pluralize renders "1 comment", "3 comments".
func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

// errorHint is the parenthetical appended to load errors so a 500
// reads differently from a missing post.
func errorHint(err error) string {
	switch {
	case pulseapi.IsServerError(err):
		return "(Server Error)"
	case pulseapi.IsNotFound(err):
		return "(Post not found)"
	default:
		return ""
	}
}

// describeError renders err for inline display: the server's message
// for HTTP errors, the failure for network errors.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	if hint := errorHint(err); hint != "" {
		text += " " + hint
	}
	return text
}

// renderErrorPanel is shown in place of content that failed to load
// and has nothing cached to fall back on.
func renderErrorPanel(theme tui.Theme, what string, err error, width int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.ErrorText).Bold(true).Render("Failed to load " + what),
		lipgloss.NewStyle().Foreground(theme.ErrorText).Width(width).Render(describeError(err)),
		"",
		lipgloss.NewStyle().Foreground(theme.HelpText).Render("Press r to retry"),
	}
	return strings.Join(lines, "\n")
}

// loadFailed reports whether state is an error with nothing to show.
func loadFailed(state query.State) bool {
	return !state.HasValue && state.Status == query.StatusError
}
