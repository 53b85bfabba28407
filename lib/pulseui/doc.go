// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pulseui is the interactive terminal client for the pulse
// feed, built on bubbletea.
//
// The [Model] has three screens. The feed lists loaded posts as cards
// with a leaderboard column beside them; "m" loads the next page and
// "/" fuzzy-filters what is loaded. The thread screen shows one post
// with its comment tree, rendered depth-first with a guide rule per
// nesting level. The login screen swaps the session's credentials.
//
// All state the views render comes from the [query.Cache] owned by a
// [pulse.Store]. The model subscribes to the keys it shows and
// re-reads them when notified, so optimistic writes made by store
// operations (running as tea.Cmd goroutines) show up immediately and
// are replaced or rolled back the same way. Failed mutations leave an
// inline error beside the control that triggered them; failed
// comment and post submissions reopen the compose modal with the
// typed text.
//
// [TUILogHandler] routes slog records into the status bar.
package pulseui
