// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pulseapi is a typed client for the Pulse feed REST API.
//
// The API is a small JSON surface: a paged post feed, post detail with
// a nested comment tree, like toggles for posts and comments, comment
// creation, and a karma leaderboard. The server owns every rule
// (ordering, karma computation, like uniqueness); this package only
// moves bytes and classifies failures.
//
// Failures are one of two types:
//
//   - [NetworkError]: no HTTP response arrived (connection refused,
//     DNS failure, the fixed [DefaultTimeout] elapsed, context
//     cancelled).
//   - [HTTPError]: the server answered with a non-2xx status. The
//     parsed error body is attached.
//
// Authentication is HTTP Basic. A [Client] is immutable with respect
// to its credentials: [Client.WithCredentials] returns a new client
// sharing the same transport, so a login never mutates state that
// another in-flight request is reading.
package pulseapi
