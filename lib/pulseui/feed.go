// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// FeedView is the post list: the cached feed pages narrowed by the
// filter, a cursor, and per-post inline errors.
type FeedView struct {
	state query.State
	pages pulse.FeedPages

	results []FilterResult
	filter  FilterModel

	cursor int
	// selectedID keeps the cursor on the same post when the list
	// changes underneath it.
	selectedID int64

	// errors holds inline like failures by post ID. Cleared when the
	// post is liked again.
	errors map[int64]string

	loadingMore   bool
	loadMoreError string

	spinner spinner.Model
}

func newFeedView(theme tui.Theme) FeedView {
	return FeedView{
		errors:  make(map[int64]string),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
}

// sync re-reads the feed from the cache and re-applies the filter.
func (feed *FeedView) sync(cache *query.Cache) {
	feed.state = cache.Peek(query.PostsKey)
	if pages, ok := feed.state.Value.(pulse.FeedPages); ok {
		feed.pages = pages
	}
	feed.applyFilter()
}

func (feed *FeedView) applyFilter() {
	feed.results = feed.filter.Apply(feed.pages.Posts())
	feed.restoreSelection()
}

// restoreSelection moves the cursor back to selectedID if it is still
// listed, otherwise clamps it.
func (feed *FeedView) restoreSelection() {
	for index, result := range feed.results {
		if result.Post.ID == feed.selectedID {
			feed.cursor = index
			return
		}
	}
	feed.cursor = min(max(feed.cursor, 0), max(len(feed.results)-1, 0))
	if post, ok := feed.selected(); ok {
		feed.selectedID = post.ID
	}
}

func (feed *FeedView) selected() (pulseapi.Post, bool) {
	if feed.cursor < 0 || feed.cursor >= len(feed.results) {
		return pulseapi.Post{}, false
	}
	return feed.results[feed.cursor].Post, true
}

func (feed *FeedView) move(delta int) {
	if len(feed.results) == 0 {
		return
	}
	feed.cursor = min(max(feed.cursor+delta, 0), len(feed.results)-1)
	feed.selectedID = feed.results[feed.cursor].Post.ID
}

// snapshot returns the like state of every loaded post by ID, for
// detecting changes between syncs.
func (feed *FeedView) snapshot() map[int64]bool {
	posts := feed.pages.Posts()
	liked := make(map[int64]bool, len(posts))
	for _, post := range posts {
		liked[post.ID] = post.IsLiked
	}
	return liked
}

// render draws the visible window of cards. The window scrolls just far
// enough to keep the selected card fully on screen.
func (feed *FeedView) render(theme tui.Theme, width, height int, heat *tui.HeatTracker[int64], now time.Time) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	switch {
	case feed.state.Loading():
		return placeCentered(width, height, feed.spinner.View()+faint.Render(" Loading posts…"))
	case loadFailed(feed.state):
		return placeCentered(width, height, renderErrorPanel(theme, "posts", feed.state.Err, max(width-8, 20)))
	case len(feed.pages.Posts()) == 0:
		return placeCentered(width, height, faint.Render("No posts yet."))
	case len(feed.results) == 0:
		return placeCentered(width, height, faint.Render("No posts match the filter."))
	}

	var lines []string
	var cursorEnd int
	for index, result := range feed.results {
		card := PostCard{
			Post:      result.Post,
			Positions: result.Positions,
			Selected:  index == feed.cursor,
			Heat:      heat.Heat(result.Post.ID, now),
			Error:     feed.errors[result.Post.ID],
		}
		lines = append(lines, strings.Split(card.Render(theme, width, now), "\n")...)
		if index == feed.cursor {
			cursorEnd = len(lines)
		}
		lines = append(lines, "")
	}
	lines = append(lines, feed.footer(theme))

	start := 0
	if cursorEnd > height {
		start = cursorEnd - height
	}
	// Show the footer when the last card is selected.
	if feed.cursor == len(feed.results)-1 && len(lines) > height {
		start = len(lines) - height
	}
	end := min(start+height, len(lines))
	window := lines[start:end]
	for len(window) < height {
		window = append(window, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(window, "\n"))
}

func (feed *FeedView) footer(theme tui.Theme) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	shown := fmt.Sprintf("%d of %d posts", len(feed.pages.Posts()), feed.pages.Total())
	switch {
	case feed.loadingMore:
		return feed.spinner.View() + faint.Render(" Loading more…")
	case feed.loadMoreError != "":
		return lipgloss.NewStyle().Foreground(theme.ErrorText).Render(feed.loadMoreError) +
			faint.Render("  m to try again")
	case feed.pages.HasMore():
		return faint.Render(shown + " · m to load more")
	default:
		return faint.Render(shown)
	}
}

func placeCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
