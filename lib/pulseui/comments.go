// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/thread"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// guideWidth is the indentation per nesting level.
const guideWidth = 2

// CommentSection is the thread screen: one post with its comment tree
// in a scrollable viewport. Position 0 of the cursor is the post;
// positions 1..n are comments in depth-first order.
type CommentSection struct {
	PostID int64

	subscription *query.Subscription

	state   query.State
	post    pulseapi.Post
	hasPost bool

	// order lists comment IDs depth-first, matching render order.
	order []int64

	cursor     int
	selectedID int64

	// postError and errors hold inline like failures for the post and
	// for comments by ID.
	postError string
	errors    map[int64]string

	// heat tints comments that just arrived or changed like state.
	heat *tui.HeatTracker[int64]

	// lineOf maps a cursor position to its first line in the rendered
	// body, for scrolling.
	lineOf []int

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
}

func newCommentSection(postID int64, subscription *query.Subscription, theme tui.Theme) *CommentSection {
	return &CommentSection{
		PostID:       postID,
		subscription: subscription,
		errors:       make(map[int64]string),
		heat:         tui.NewHeatTracker[int64](),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
}

// close releases the section's cache subscription.
func (section *CommentSection) close() {
	if section.subscription != nil {
		section.subscription.Close()
	}
}

// sync re-reads the post from the cache, lighting up comments that
// appeared or changed like state since the last sync.
func (section *CommentSection) sync(cache *query.Cache, now time.Time) {
	previous := make(map[int64]bool)
	if section.hasPost {
		thread.Walk(section.post.Comments, thread.Comments, func(comment pulseapi.Comment, _ int) bool {
			previous[comment.ID] = comment.IsLiked
			return true
		})
	}

	section.state = cache.Peek(query.PostKey(section.PostID))
	post, ok := section.state.Value.(pulseapi.Post)
	if !ok {
		return
	}
	hadPost := section.hasPost
	section.post, section.hasPost = post, true

	section.order = section.order[:0]
	thread.Walk(post.Comments, thread.Comments, func(comment pulseapi.Comment, _ int) bool {
		section.order = append(section.order, comment.ID)
		if liked, seen := previous[comment.ID]; hadPost && (!seen || liked != comment.IsLiked) {
			kind := tui.HeatLiked
			if !seen {
				kind = tui.HeatArrived
			}
			section.heat.Ignite(comment.ID, kind, now)
		}
		return true
	})
	section.restoreSelection()
}

func (section *CommentSection) restoreSelection() {
	if section.selectedID != 0 {
		for index, id := range section.order {
			if id == section.selectedID {
				section.cursor = index + 1
				return
			}
		}
	}
	section.cursor = min(section.cursor, len(section.order))
	section.selectedID = 0
	if section.cursor > 0 {
		section.selectedID = section.order[section.cursor-1]
	}
}

func (section *CommentSection) move(delta int) {
	section.cursor = min(max(section.cursor+delta, 0), len(section.order))
	section.selectedID = 0
	if section.cursor > 0 {
		section.selectedID = section.order[section.cursor-1]
	}
}

// selectedComment returns the comment under the cursor; false when the
// cursor is on the post.
func (section *CommentSection) selectedComment() (pulseapi.Comment, bool) {
	if section.cursor == 0 || !section.hasPost {
		return pulseapi.Comment{}, false
	}
	return thread.Find(section.post.Comments, thread.Comments, section.selectedID)
}

func (section *CommentSection) setSize(width, height int) {
	section.width = width
	section.height = height
	section.viewport.Width = max(width-1, 1)
	section.viewport.Height = max(height, 1)
}

// render rebuilds the viewport content and scrolls the selection into
// view.
func (section *CommentSection) render(theme tui.Theme, now time.Time) {
	if !section.hasPost {
		section.viewport.SetContent("")
		return
	}
	width := section.viewport.Width
	section.lineOf = section.lineOf[:0]

	var lines []string
	section.lineOf = append(section.lineOf, 0)
	lines = append(lines, section.renderPost(theme, width, now)...)

	count := thread.Count(section.post.Comments, thread.Comments)
	rule := lipgloss.NewStyle().Foreground(theme.BorderColor)
	caption := " Comments (" + strconv.Itoa(count) + ") "
	lines = append(lines, "", rule.Render("──")+
		lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(caption)+
		rule.Render(strings.Repeat("─", max(width-2-ansi.StringWidth(caption), 0))), "")

	if count == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.FaintText).
			Render("No comments yet. Press c to add one."))
	}
	for _, comment := range section.post.Comments {
		lines = section.renderComment(lines, theme, comment, 0, width, now)
	}

	section.viewport.SetContent(strings.Join(lines, "\n"))
	section.scrollToCursor()
}

func (section *CommentSection) scrollToCursor() {
	if section.cursor >= len(section.lineOf) {
		return
	}
	target := section.lineOf[section.cursor]
	offset := section.viewport.YOffset
	switch {
	case section.cursor == 0:
		offset = 0
	case target < offset:
		offset = target
	case target >= offset+section.viewport.Height-2:
		offset = target - section.viewport.Height/2
	}
	section.viewport.SetYOffset(max(offset, 0))
}

func (section *CommentSection) renderPost(theme tui.Theme, width int, now time.Time) []string {
	post := section.post
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	marker := selectionMarker(theme, section.cursor == 0)

	header := marker + renderAvatar(theme, post.Author.Username) + " " +
		lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(post.Author.Username) +
		faint.Render(" · "+formatTimestamp(post.CreatedAt, now))
	lines := []string{header, ""}
	for _, line := range strings.Split(renderMarkdown(post.Content, theme, width-2), "\n") {
		lines = append(lines, "  "+line)
	}
	footer := marker + likeMarker(theme, post.IsLiked, post.LikesCount)
	if section.postError != "" {
		footer += "  " + lipgloss.NewStyle().Foreground(theme.ErrorText).Render(section.postError)
	}
	return append(lines, "", footer)
}

// renderComment appends comment and, recursively, its replies. Each
// level is indented by a guide rule.
func (section *CommentSection) renderComment(lines []string, theme tui.Theme, comment pulseapi.Comment, depth, width int, now time.Time) []string {
	section.lineOf = append(section.lineOf, len(lines))
	selected := comment.ID == section.selectedID && section.cursor > 0
	pending := pulse.IsLocalID(comment.ID)

	guide := strings.Repeat(lipgloss.NewStyle().Foreground(theme.ThreadGuide).Render("│ "), depth)
	prefix := selectionMarker(theme, selected) + guide
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	authorStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	if pending {
		authorStyle = authorStyle.Foreground(theme.PendingText)
	}
	header := authorStyle.Render(comment.Author.Username) + faint.Render(" · "+formatTimestamp(comment.CreatedAt, now))
	if pending {
		header += faint.Render(" · sending…")
	}
	if section.heat.Heat(comment.ID, now) > 0 && !selected {
		header = lipgloss.NewStyle().Background(theme.HotAccent).Render(ansi.Strip(header))
	}
	lines = append(lines, prefix+header)

	bodyWidth := max(width-2-depth*guideWidth, 10)
	body := renderMarkdown(comment.Content, theme, bodyWidth)
	if pending {
		body = lipgloss.NewStyle().Foreground(theme.PendingText).Render(ansi.Strip(body))
	}
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, prefix+line)
	}

	footer := likeMarker(theme, comment.IsLiked, comment.LikesCount)
	if selected && !pending {
		footer += faint.Render("  a reply · l like")
	}
	if message := section.errors[comment.ID]; message != "" {
		footer += "  " + lipgloss.NewStyle().Foreground(theme.ErrorText).Render(message)
	}
	lines = append(lines, prefix+footer, prefix)

	for _, reply := range comment.Replies {
		lines = section.renderComment(lines, theme, reply, depth+1, width, now)
	}
	return lines
}

// view draws the section: a spinner while loading, an error panel when
// loading failed with nothing cached, the thread otherwise.
func (section *CommentSection) view(theme tui.Theme) string {
	switch {
	case !section.hasPost && loadFailed(section.state):
		return placeCentered(section.width, section.height, renderErrorPanel(theme, "comments", section.state.Err, max(section.width-8, 20)))
	case !section.hasPost:
		return placeCentered(section.width, section.height,
			section.spinner.View()+lipgloss.NewStyle().Foreground(theme.FaintText).Render(" Loading comments…"))
	}
	body := lipgloss.NewStyle().Width(section.viewport.Width).Height(section.height).Render(section.viewport.View())
	scrollbar := tui.RenderScrollbar(theme, section.height,
		section.viewport.TotalLineCount(), section.viewport.Height, section.viewport.YOffset, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar)
}

func selectionMarker(theme tui.Theme, selected bool) string {
	if selected {
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▌ ")
	}
	return "  "
}
