// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ComposeAction reports what a key press did to a [ComposeModal].
type ComposeAction int

const (
	// ComposeEditing means the key edited text or moved the cursor.
	ComposeEditing ComposeAction = iota
	// ComposeSubmit means the user asked to send the draft (Ctrl+D).
	ComposeSubmit
	// ComposeCancel means the user dismissed the modal (Esc).
	ComposeCancel
)

// ComposeModal is a centered multi-line editor used for writing posts,
// comments, and replies. The draft survives a failed submit: callers
// put the text back with [ComposeModal.SetValue] and show the failure
// with [ComposeModal.SetError].
type ComposeModal struct {
	// Title is shown in the modal header (e.g. "New post",
	// "Reply to alice").
	Title string

	// Placeholder is shown faintly while the draft is empty.
	Placeholder string

	lines  [][]rune
	row    int
	column int
	err    string
	theme  Theme
}

// NewComposeModal creates an empty, focused compose modal.
func NewComposeModal(title string, theme Theme) ComposeModal {
	return ComposeModal{
		Title: title,
		lines: [][]rune{{}},
		theme: theme,
	}
}

// Value returns the draft text with lines joined by newlines.
func (modal ComposeModal) Value() string {
	parts := make([]string, len(modal.lines))
	for index, line := range modal.lines {
		parts[index] = string(line)
	}
	return strings.Join(parts, "\n")
}

// SetValue replaces the draft and moves the cursor to its end.
func (modal *ComposeModal) SetValue(text string) {
	split := strings.Split(text, "\n")
	modal.lines = make([][]rune, len(split))
	for index, line := range split {
		modal.lines[index] = []rune(line)
	}
	modal.row = len(modal.lines) - 1
	modal.column = len(modal.lines[modal.row])
}

// Empty reports whether the draft is only whitespace.
func (modal ComposeModal) Empty() bool {
	return strings.TrimSpace(modal.Value()) == ""
}

// SetError shows message under the editor until the next edit. An
// empty message clears it.
func (modal *ComposeModal) SetError(message string) { modal.err = message }

// Error returns the message set by [ComposeModal.SetError].
func (modal ComposeModal) Error() string { return modal.err }

// Update applies a key press to the draft.
func (modal *ComposeModal) Update(message tea.KeyMsg) ComposeAction {
	switch message.Type {
	case tea.KeyCtrlD:
		return ComposeSubmit
	case tea.KeyEsc:
		return ComposeCancel
	}

	modal.err = ""
	current := modal.lines[modal.row]

	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			modal.lines[modal.row] = slices.Insert(modal.lines[modal.row], modal.column, character)
			modal.column++
		}

	case tea.KeyEnter:
		head := slices.Clone(current[:modal.column])
		tail := slices.Clone(current[modal.column:])
		modal.lines[modal.row] = head
		modal.lines = slices.Insert(modal.lines, modal.row+1, tail)
		modal.row++
		modal.column = 0

	case tea.KeyBackspace:
		switch {
		case modal.column > 0:
			modal.lines[modal.row] = slices.Delete(current, modal.column-1, modal.column)
			modal.column--
		case modal.row > 0:
			above := modal.lines[modal.row-1]
			modal.column = len(above)
			modal.lines[modal.row-1] = append(above, current...)
			modal.lines = slices.Delete(modal.lines, modal.row, modal.row+1)
			modal.row--
		}

	case tea.KeyDelete:
		switch {
		case modal.column < len(current):
			modal.lines[modal.row] = slices.Delete(current, modal.column, modal.column+1)
		case modal.row < len(modal.lines)-1:
			modal.lines[modal.row] = append(current, modal.lines[modal.row+1]...)
			modal.lines = slices.Delete(modal.lines, modal.row+1, modal.row+2)
		}

	case tea.KeyLeft:
		if modal.column > 0 {
			modal.column--
		} else if modal.row > 0 {
			modal.row--
			modal.column = len(modal.lines[modal.row])
		}

	case tea.KeyRight:
		if modal.column < len(current) {
			modal.column++
		} else if modal.row < len(modal.lines)-1 {
			modal.row++
			modal.column = 0
		}

	case tea.KeyUp:
		if modal.row > 0 {
			modal.row--
			modal.column = min(modal.column, len(modal.lines[modal.row]))
		}

	case tea.KeyDown:
		if modal.row < len(modal.lines)-1 {
			modal.row++
			modal.column = min(modal.column, len(modal.lines[modal.row]))
		}

	case tea.KeyHome, tea.KeyCtrlA:
		modal.column = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		modal.column = len(modal.lines[modal.row])
	}
	return ComposeEditing
}

// Border and padding take 4 columns. Border, title, and footer take 4
// rows; an error adds one more.
const (
	composeChromeWidth  = 4
	composeChromeHeight = 4
	composeMinWidth     = 30
	composeMinHeight    = 3
	composeMaxWidth     = 72
	composeMaxHeight    = 10
)

// Render produces the modal lines and the top-left anchor for
// [SpliceOverlay].
func (modal ComposeModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := min(max(screenWidth-composeChromeWidth-4, composeMinWidth), composeMaxWidth)
	innerHeight := min(max(screenHeight-composeChromeHeight-4, composeMinHeight), composeMaxHeight)
	innerWidth = min(innerWidth, max(screenWidth-composeChromeWidth, 1))
	if modal.err != "" {
		innerHeight = max(innerHeight-1, 1)
	}

	background := lipgloss.NewStyle().Background(modal.theme.ModalBackground)
	fill := func(rendered string) string {
		if width := ansi.StringWidth(rendered); width < innerWidth {
			rendered += background.Render(strings.Repeat(" ", innerWidth-width))
		}
		return rendered
	}
	styled := func(color lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(color).Background(modal.theme.ModalBackground)
	}
	textStyle := styled(modal.theme.NormalText)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	rows := []string{fill(styled(modal.theme.Accent).Bold(true).Render(modal.Title))}

	scroll := max(modal.row-innerHeight+1, 0)
	for index := scroll; index < scroll+innerHeight; index++ {
		var rendered string
		switch {
		case index >= len(modal.lines):
		case index == 0 && len(modal.lines) == 1 && len(modal.lines[0]) == 0 && modal.Placeholder != "":
			rendered = cursorStyle.Render(" ") + styled(modal.theme.FaintText).Render(modal.Placeholder)
		case index == modal.row:
			line := modal.lines[index]
			rendered = textStyle.Render(string(line[:modal.column]))
			if modal.column < len(line) {
				rendered += cursorStyle.Render(string(line[modal.column])) +
					textStyle.Render(string(line[modal.column+1:]))
			} else {
				rendered += cursorStyle.Render(" ")
			}
		default:
			rendered = textStyle.Render(string(modal.lines[index]))
		}
		rows = append(rows, fill(ansi.Truncate(rendered, innerWidth, "…")))
	}

	if modal.err != "" {
		rows = append(rows, fill(styled(modal.theme.ErrorText).Render(ansi.Truncate(modal.err, innerWidth, "…"))))
	}
	rows = append(rows, fill(styled(modal.theme.FaintText).Render("Ctrl+D send  Esc cancel")))

	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.ModalBackground).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))

	lines := strings.Split(rendered, "\n")
	width := 0
	if len(lines) > 0 {
		width = ansi.StringWidth(lines[0])
	}
	return lines, max((screenWidth-width)/2, 0), max((screenHeight-len(lines))/2, 0)
}
