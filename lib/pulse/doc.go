// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pulse holds the feed's behavior independent of any user
// interface: reading posts, comment threads, and the leaderboard
// through the query cache, and the optimistic mutations (create post,
// toggle like, add comment, reply) with their rollback and
// reconciliation rules.
//
// A [Store] owns the cache and the current API client. Every mutation
// follows the same shape: validate locally, write the optimistic value
// with query.SetLocal, send the request, then either reconcile with the
// server's answer or roll back. Tree updates go through package thread
// so unchanged subtrees are shared with the previous value.
//
// The terminal UI (package pulseui) and the CLI both drive a Store.
package pulse
