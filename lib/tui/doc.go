// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal UI components for pulse's
// interactive views: the color theme, fuzzy matching for the feed
// filter, a multi-line compose modal, overlay splicing, change
// highlighting, and a scrollbar. Built on bubbletea and lipgloss.
//
// Views in package pulseui own their layout and domain rendering and
// import this package for a consistent look.
package tui
