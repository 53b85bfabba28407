// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the pulse TUI.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Open shows the selected post's comments.
	Open key.Binding
	// Back returns from the thread or login screen to the feed.
	Back key.Binding

	// Mutations.
	Like    key.Binding
	NewPost key.Binding
	Comment key.Binding
	Reply   key.Binding

	LoadMore key.Binding
	// Refresh refetches the current view. On an error panel it is the
	// retry affordance.
	Refresh key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding

	ToggleLeaderboard key.Binding
	Login             key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: vim-style movement next
// to arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("C-f", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("⏎", "comments"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("Esc", "back"),
	),
	Like: key.NewBinding(
		key.WithKeys("l", " "),
		key.WithHelp("l", "like"),
	),
	NewPost: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new post"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comment"),
	),
	Reply: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "reply"),
	),
	LoadMore: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "load more"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	ToggleLeaderboard: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "leaderboard"),
	),
	Login: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log in"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
