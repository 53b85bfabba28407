// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so that time-driven behavior
// (leaderboard polling, optimistic timestamps, status-bar fades) can be
// driven deterministically in tests.
//
// Production code holds a [Clock] and receives [Real]. Tests construct
// [Fake] and move time forward explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	poller := pulse.NewPoller(cache, client, fake)
//	go poller.Run(ctx)
//	fake.WaitForTimers(1)
//	fake.Advance(pulse.LeaderboardInterval)
//
// WaitForTimers closes the gap between a goroutine registering its
// ticker and the test advancing past it.
package clock
