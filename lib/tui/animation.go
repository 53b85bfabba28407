// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long an item glows after it changes. Heat
// starts at 1.0 and falls linearly to 0.0 over this duration.
const HeatDecayDuration = 3 * time.Second

// HeatTickInterval is the re-render interval while anything is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind distinguishes why an item glows.
type HeatKind int

const (
	// HeatArrived marks an item that just appeared (a new post, a
	// confirmed comment).
	HeatArrived HeatKind = iota
	// HeatLiked marks an item whose like state just changed.
	HeatLiked
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps item keys to ignition times for change
// highlighting. The zero value is not usable; call [NewHeatTracker].
type HeatTracker[K comparable] struct {
	entries map[K]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker[K comparable]() *HeatTracker[K] {
	return &HeatTracker[K]{entries: make(map[K]heatEntry)}
}

// Ignite records a change. Re-igniting a hot item restarts its decay.
func (tracker *HeatTracker[K]) Ignite(key K, kind HeatKind, now time.Time) {
	tracker.entries[key] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the intensity for key at now, in [0, 1].
func (tracker *HeatTracker[K]) Heat(key K, now time.Time) float64 {
	entry, exists := tracker.entries[key]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed < 0 || elapsed >= HeatDecayDuration {
		return 0
	}
	return 1 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns why key last ignited. Only meaningful while Heat > 0.
func (tracker *HeatTracker[K]) Kind(key K) HeatKind {
	return tracker.entries[key].kind
}

// HasHot reports whether anything still glows at now, dropping fully
// decayed entries as it goes. The animation tick keeps running while
// this is true.
func (tracker *HeatTracker[K]) HasHot(now time.Time) bool {
	hot := false
	for key, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, key)
	}
	return hot
}
