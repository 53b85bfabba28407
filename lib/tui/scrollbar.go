// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a one-column scrollbar of the given height
// for a list of total rows of which visible are shown starting at
// offset. When everything fits the thumb fills the track. The thumb
// takes the accent color when focused.
func RenderScrollbar(theme Theme, height, total, visible, offset int, focused bool) string {
	if height <= 0 {
		return ""
	}

	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.Accent
	}
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")

	thumbStart, thumbSize := 0, height
	if total > visible && total > 0 {
		thumbSize = max(height*visible/total, 1)
		scrollable := total - visible
		travel := height - thumbSize
		if travel > 0 {
			thumbStart = min(max(offset, 0), scrollable) * travel / scrollable
		}
	}

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbStart && index < thumbStart+thumbSize {
			lines[index] = thumb
		} else {
			lines[index] = track
		}
	}
	return strings.Join(lines, "\n")
}
