// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"
	"time"
)

func TestHeatTrackerDecay(t *testing.T) {
	tracker := NewHeatTracker[int64]()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if heat := tracker.Heat(7, start); heat != 0 {
		t.Errorf("untracked heat = %v, want 0", heat)
	}

	tracker.Ignite(7, HeatLiked, start)
	if heat := tracker.Heat(7, start); heat != 1 {
		t.Errorf("heat at ignition = %v, want 1", heat)
	}
	if heat := tracker.Heat(7, start.Add(HeatDecayDuration/2)); heat < 0.49 || heat > 0.51 {
		t.Errorf("heat at half decay = %v, want ~0.5", heat)
	}
	if heat := tracker.Heat(7, start.Add(HeatDecayDuration)); heat != 0 {
		t.Errorf("heat after decay = %v, want 0", heat)
	}
	if kind := tracker.Kind(7); kind != HeatLiked {
		t.Errorf("Kind = %v, want HeatLiked", kind)
	}
}

func TestHeatTrackerHasHotCollectsDecayed(t *testing.T) {
	tracker := NewHeatTracker[string]()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker.Ignite("post:1", HeatArrived, start)
	tracker.Ignite("post:2", HeatArrived, start.Add(HeatDecayDuration/2))

	if !tracker.HasHot(start.Add(HeatDecayDuration)) {
		t.Fatal("post:2 should still be hot")
	}
	if len(tracker.entries) != 1 {
		t.Errorf("decayed entry not collected, %d entries remain", len(tracker.entries))
	}
	if tracker.HasHot(start.Add(2 * HeatDecayDuration)) {
		t.Error("nothing should be hot after both decay")
	}
}
