// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pulse packages.
//
// [RequireReceive], [RequireSend], [RequireNoReceive], and [Eventually]
// wrap the timeout safety valve (a select against a wall-clock
// deadline) so individual tests never call time.After or time.Sleep.
// Production code under test takes a clock.Clock; these helpers are the
// only place tests wait on real time, and only to stop a broken test
// from hanging.
//
// [UniqueID] generates monotonically increasing identifiers so tests
// sharing one fake server can tell their own posts and comments apart.
//
// All helpers call t.Fatalf on failure.
package testutil
