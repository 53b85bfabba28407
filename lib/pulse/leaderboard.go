// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/bureau-foundation/pulse/lib/clock"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
)

// LeaderboardInterval is how often the leaderboard is refetched while
// it is on screen.
const LeaderboardInterval = 30 * time.Second

// Leaderboard returns users ranked by karma, highest first.
func (store *Store) Leaderboard(ctx context.Context) ([]pulseapi.LeaderboardEntry, error) {
	return query.Get(ctx, store.cache, query.LeaderboardKey, store.fetchLeaderboard)
}

// RefreshLeaderboard refetches the leaderboard and waits for the result.
func (store *Store) RefreshLeaderboard(ctx context.Context) ([]pulseapi.LeaderboardEntry, error) {
	return query.Refresh(ctx, store.cache, query.LeaderboardKey, store.fetchLeaderboard)
}

func (store *Store) fetchLeaderboard(ctx context.Context) ([]pulseapi.LeaderboardEntry, error) {
	entries, err := store.Client().Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return RankLeaderboard(entries), nil
}

// RankLeaderboard orders entries by karma, highest first. The server
// already sorts; the stable sort keeps its order for ties and guards
// rendering against an unsorted response.
func RankLeaderboard(entries []pulseapi.LeaderboardEntry) []pulseapi.LeaderboardEntry {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b pulseapi.LeaderboardEntry) int {
		return cmp.Compare(b.Karma, a.Karma)
	})
	return ranked
}

// Poller runs a refresh function on a fixed interval.
type Poller struct {
	Interval time.Duration
	Clock    clock.Clock
	Refresh  func(ctx context.Context) error
	Logger   *slog.Logger
}

// LeaderboardPoller returns a Poller refreshing the leaderboard every
// LeaderboardInterval.
func (store *Store) LeaderboardPoller() *Poller {
	return &Poller{
		Interval: LeaderboardInterval,
		Clock:    store.clock,
		Logger:   store.logger,
		Refresh: func(ctx context.Context) error {
			_, err := store.RefreshLeaderboard(ctx)
			return err
		},
	}
}

// Run refreshes on every tick until ctx is cancelled. The first refresh
// happens one interval after Run starts. Refresh errors are logged and
// polling continues; the cache keeps the last good value.
func (poller *Poller) Run(ctx context.Context) error {
	ticker := poller.Clock.NewTicker(poller.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := poller.Refresh(ctx); err != nil && ctx.Err() == nil {
				poller.Logger.Warn("poll refresh failed", "interval", poller.Interval, "error", err)
			}
		}
	}
}
