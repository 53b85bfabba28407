// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// resetSGR clears styling at the seams between a view and an overlay
// so neither side's colors bleed into the other.
const resetSGR = "\x1b[0m"

// SpliceOverlay places overlay lines over view with the top-left corner
// at (anchorX, anchorY). Cells of the view to either side of the overlay
// keep their original styling. Overlay rows outside the view are
// dropped.
func SpliceOverlay(view string, overlay []string, anchorX, anchorY int) string {
	if len(overlay) == 0 {
		return view
	}
	rows := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlay[0])
	anchorX = max(anchorX, 0)

	for index, overlayRow := range overlay {
		target := anchorY + index
		if target < 0 || target >= len(rows) {
			continue
		}
		row := rows[target]

		var builder strings.Builder
		prefix := ansi.Truncate(row, anchorX, "")
		builder.WriteString(prefix)
		if width := ansi.StringWidth(prefix); width < anchorX {
			builder.WriteString(strings.Repeat(" ", anchorX-width))
		}
		builder.WriteString(resetSGR)
		builder.WriteString(overlayRow)
		builder.WriteString(resetSGR)
		if end := anchorX + overlayWidth; end < ansi.StringWidth(row) {
			builder.WriteString(ansi.TruncateLeft(row, end, ""))
		}
		rows[target] = builder.String()
	}
	return strings.Join(rows, "\n")
}

// Excerpt returns up to maxLines non-blank lines of text, trimmed and
// truncated to maxWidth with an ellipsis. The second result reports
// whether anything was cut.
func Excerpt(text string, maxWidth, maxLines int) ([]string, bool) {
	var lines []string
	cut := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(lines) == maxLines {
			cut = true
			break
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, max(maxWidth-1, 0), "…")
			cut = true
		}
		lines = append(lines, trimmed)
	}
	return lines, cut
}
