// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSpliceOverlay(t *testing.T) {
	view := "aaaaaaaa\nbbbbbbbb\ncccccccc"
	result := ansi.Strip(SpliceOverlay(view, []string{"XX", "YY"}, 3, 1))
	want := "aaaaaaaa\nbbbXXbbb\ncccYYccc"
	if result != want {
		t.Errorf("SpliceOverlay =\n%s\nwant\n%s", result, want)
	}
}

func TestSpliceOverlayClipsRows(t *testing.T) {
	view := "aaaa\nbbbb"
	result := ansi.Strip(SpliceOverlay(view, []string{"X", "Y", "Z"}, 0, 1))
	if result != "aaaa\nXbbb" {
		t.Errorf("SpliceOverlay = %q", result)
	}
}

func TestSpliceOverlayShortRowIsPadded(t *testing.T) {
	result := ansi.Strip(SpliceOverlay("ab", []string{"X"}, 4, 0))
	if result != "ab  X" {
		t.Errorf("SpliceOverlay = %q, want %q", result, "ab  X")
	}
}

func TestExcerpt(t *testing.T) {
	lines, cut := Excerpt("\n  first line  \n\nsecond line is long\nthird", 10, 2)
	if len(lines) != 2 || lines[0] != "first line" {
		t.Fatalf("Excerpt lines = %q", lines)
	}
	if !strings.HasSuffix(lines[1], "…") || ansi.StringWidth(lines[1]) > 10 {
		t.Errorf("second line not truncated: %q", lines[1])
	}
	if !cut {
		t.Error("expected cut = true")
	}

	lines, cut = Excerpt("short", 10, 3)
	if len(lines) != 1 || cut {
		t.Errorf("Excerpt(short) = %q, %v", lines, cut)
	}
}
