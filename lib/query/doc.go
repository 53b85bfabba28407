// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package query is the client-side cache of server state.
//
// Every piece of server-mirrored data lives in one Cache under a
// semantic [Key] ("posts", "post:42", "leaderboard"). Readers use
// [Get], which returns a cached value immediately and revalidates it in
// the background when it is stale. Writers never modify a cached value
// in place: [SetLocal] replaces it with a new value derived from the
// old one and returns a [Snapshot] that [Cache.Rollback] can restore.
// [Mutate] sequences an optimistic write, the network request, and the
// rollback or reconciliation that follows.
//
// Each entry carries two counters:
//
//   - version increments whenever the value is written (locally or by
//     a fetch) or invalidated. Rollback restores a snapshot only when
//     the entry is still at the version the snapshot's own write
//     produced; otherwise something newer would be lost, so the entry
//     is invalidated and refetched from the server instead.
//   - generation increments whenever an in-flight fetch is superseded
//     (a local write or an invalidation). A fetch result is stored only
//     if its generation is still current, so a slow response can never
//     overwrite newer data.
//
// Concurrent fetches of the same key and generation share one request
// via singleflight. Subscribers receive a coalesced notification on a
// capacity-1 channel whenever the entry changes, and an entry with at
// least one subscriber is refetched in the background when it is
// invalidated.
package query
