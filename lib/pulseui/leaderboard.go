// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// leaderboardCaption labels the panel. The server computes karma over
// a rolling 24-hour window.
const leaderboardCaption = "Top Karma (Last 24h)"

// leaderboardWidth is the column width of the side panel.
const leaderboardWidth = 30

// renderLeaderboard draws the karma leaderboard from the cached state.
// Entries render in descending karma order with the podium colored.
func renderLeaderboard(theme tui.Theme, state query.State, width int) string {
	title := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(leaderboardCaption)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	lines := []string{title, faint.Render(strings.Repeat("─", max(width-1, 1)))}

	entries, _ := state.Value.([]pulseapi.LeaderboardEntry)
	switch {
	case state.Loading():
		lines = append(lines, faint.Render("Loading…"))
	case loadFailed(state):
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ErrorText).Width(width-1).
			Render(describeError(state.Err)))
	case len(entries) == 0:
		lines = append(lines, faint.Render("No activity yet."))
	default:
		for index, entry := range pulse.RankLeaderboard(entries) {
			lines = append(lines, leaderboardRow(theme, index+1, entry, width-1))
		}
	}
	if state.HasValue && state.Err != nil {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.ErrorText).
			Render(ansi.Truncate("refresh failed", width-1, "…")))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func leaderboardRow(theme tui.Theme, rank int, entry pulseapi.LeaderboardEntry, width int) string {
	style := lipgloss.NewStyle().Foreground(theme.MedalColor(rank))
	if rank <= len(theme.Medals) {
		style = style.Bold(true)
	}
	position := fmt.Sprintf("%d.", rank)
	karma := fmt.Sprintf("%d", entry.Karma)
	nameWidth := max(width-len(position)-len(karma)-2, 1)
	name := ansi.Truncate(entry.Username, nameWidth, "…")
	gap := max(width-len(position)-1-ansi.StringWidth(name)-len(karma), 1)
	return style.Render(position + " " + name + strings.Repeat(" ", gap) + karma)
}
