// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pulsetest runs an in-memory Pulse API server for tests.
//
// The server implements the REST surface the client uses (posts with
// page envelopes, post detail with a threaded comment tree, like
// toggles, comment creation, and the karma leaderboard) with HTTP Basic
// authentication against seeded users user0..userN, all with the
// password "password". State lives in memory and is discarded when the
// test ends.
//
// Tests control the server beyond its normal behavior:
//
//   - [Server.FailNext] and [Server.FailAlways] make a route answer with
//     an error status, for rollback and error-panel paths.
//   - [Server.Hold] parks requests on a route until released, so a test
//     can observe optimistic state while a request is in flight.
//   - [Server.Requests] and [Server.Count] record what was sent.
package pulsetest
