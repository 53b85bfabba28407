// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// FilterModel narrows the loaded feed client-side with fzf-style fuzzy
// matching against post content and author. Matching never reorders:
// the feed keeps server order.
type FilterModel struct {
	// Input is the current query.
	Input string

	// Active is true while the filter bar has keyboard focus.
	Active bool
}

// FilterResult is a post that passed the filter, with the rune
// positions of the match in its content for highlighting.
type FilterResult struct {
	Post      pulseapi.Post
	Positions []int
}

// Apply returns the posts matching the filter in their original order.
// An empty filter passes everything through without highlights.
func (filter *FilterModel) Apply(posts []pulseapi.Post) []FilterResult {
	results := make([]FilterResult, 0, len(posts))
	if filter.Input == "" {
		for _, post := range posts {
			results = append(results, FilterResult{Post: post})
		}
		return results
	}

	pattern := []rune(filter.Input)
	slab := tui.NewSlab()
	for _, post := range posts {
		content := tui.FuzzyMatch(post.Content, pattern, slab)
		if content.Matched() {
			results = append(results, FilterResult{Post: post, Positions: content.Positions})
			continue
		}
		if tui.FuzzyMatch(post.Author.Username, pattern, slab).Matched() {
			results = append(results, FilterResult{Post: post})
		}
	}
	return results
}

// HandleRune appends a typed character.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// input was already empty.
func (filter *FilterModel) HandleBackspace() bool {
	runes := []rune(filter.Input)
	if len(runes) == 0 {
		return false
	}
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties and deactivates the filter.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar, or "" when there is nothing to show.
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).
			Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).Width(width).
		Render(" filter: " + filter.Input)
}
