// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for pulse's terminal UI. All colors
// are ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// PendingText renders optimistic items the server has not
	// confirmed yet.
	PendingText lipgloss.Color

	// ErrorText renders inline mutation errors and error panels.
	ErrorText lipgloss.Color

	// Selected card or comment.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Accent is the brand color: headers, the cursor, focused inputs.
	Accent lipgloss.Color

	// Liked colors the like marker once the viewer has liked an item.
	Liked lipgloss.Color

	// Medals colors the top three leaderboard ranks.
	Medals [3]lipgloss.Color

	// ThreadGuide draws the vertical rule beside nested replies.
	ThreadGuide lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// HotAccent tints items that changed recently.
	HotAccent lipgloss.Color

	// SearchHighlightBackground tints characters matched by the filter.
	SearchHighlightBackground lipgloss.Color

	// ModalBackground fills the compose modal.
	ModalBackground lipgloss.Color
}

// MedalColor returns the color for a 1-based leaderboard rank, or
// NormalText below the podium.
func (theme Theme) MedalColor(rank int) lipgloss.Color {
	if rank < 1 || rank > len(theme.Medals) {
		return theme.NormalText
	}
	return theme.Medals[rank-1]
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:  lipgloss.Color("252"),
	FaintText:   lipgloss.Color("245"),
	PendingText: lipgloss.Color("243"),
	ErrorText:   lipgloss.Color("203"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Accent: lipgloss.Color("99"),  // violet
	Liked:  lipgloss.Color("204"), // pink

	Medals: [3]lipgloss.Color{
		lipgloss.Color("220"), // gold
		lipgloss.Color("250"), // silver
		lipgloss.Color("173"), // bronze
	},

	ThreadGuide: lipgloss.Color("238"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	HotAccent:                 lipgloss.Color("58"),
	SearchHighlightBackground: lipgloss.Color("58"),

	ModalBackground: lipgloss.Color("237"),
}
