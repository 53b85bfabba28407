// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// postExcerptLines is how many lines of a post body a feed card shows.
const postExcerptLines = 3

// PostCard renders one post in the feed.
type PostCard struct {
	Post pulseapi.Post

	// Positions are filter match offsets into Post.Content.
	Positions []int

	Selected bool

	// Heat tints the card after a change, in [0, 1].
	Heat float64

	// Error is the inline message left by a failed like.
	Error string
}

// Render draws the card at width. Every line is exactly width columns.
func (card PostCard) Render(theme tui.Theme, width int, now time.Time) string {
	post := card.Post
	pending := pulse.IsLocalID(post.ID)
	inner := max(width-2, 10)

	textColor := theme.NormalText
	if pending {
		textColor = theme.PendingText
	}
	normal := lipgloss.NewStyle().Foreground(textColor)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	header := renderAvatar(theme, post.Author.Username) + " " +
		lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(post.Author.Username) +
		faint.Render(" · "+formatTimestamp(post.CreatedAt, now))
	if pending {
		header += faint.Render(" · posting…")
	}

	lines := []string{header}
	excerpt, cut := tui.Excerpt(post.Content, inner, postExcerptLines)
	for index, line := range excerpt {
		// Match offsets index the full content, so they only line up
		// when the excerpt starts the content unmodified.
		if index == 0 && len(card.Positions) > 0 && strings.HasPrefix(post.Content, line) {
			highlight := lipgloss.NewStyle().Background(theme.SearchHighlightBackground).Foreground(theme.HeaderForeground)
			line = tui.HighlightPositions(line, card.Positions,
				func(text string) string { return normal.Render(text) },
				func(text string) string { return highlight.Render(text) })
		} else {
			line = normal.Render(line)
		}
		lines = append(lines, line)
	}
	if cut {
		lines = append(lines, faint.Render("…"))
	}

	footer := likeMarker(theme, post.IsLiked, post.LikesCount) +
		faint.Render("   "+pluralize(post.CommentsCount, "comment"))
	if card.Error != "" {
		footer += "  " + lipgloss.NewStyle().Foreground(theme.ErrorText).Render(card.Error)
	}
	lines = append(lines, footer)

	style := lipgloss.NewStyle().Width(width).MaxWidth(width)
	marker := " "
	switch {
	case card.Selected:
		style = style.Background(theme.SelectedBackground)
		marker = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▌")
	case card.Heat > 0:
		style = style.Background(theme.HotAccent)
	}
	for index, line := range lines {
		lines[index] = style.Render(marker + " " + ansi.Truncate(line, inner, "…"))
	}
	return strings.Join(lines, "\n")
}
