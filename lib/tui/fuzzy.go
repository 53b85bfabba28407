// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is one fuzzy match: a positive Score when the pattern
// matched, and the rune offsets of matched characters in the text for
// highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// Matched reports whether the pattern matched.
func (result FuzzyResult) Matched() bool { return result.Score > 0 }

// NewSlab allocates scratch space for repeated FuzzyMatch calls.
// Reusing one slab across a filter pass avoids per-call allocation.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// initFuzzy fills fzf's character class table. Until it runs, fzf
// classifies every ASCII rune as a non-word character and never folds
// case.
var initFuzzy = sync.OnceFunc(func() { algo.Init("default") })

// FuzzyMatch scores text against pattern with fzf's V2 algorithm,
// case-insensitively. An empty pattern matches nothing (zero score);
// callers treat an empty filter as "show everything". slab may be nil.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	initFuzzy()
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	var matched []int
	if positions != nil {
		matched = slices.Clone(*positions)
		slices.Sort(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}

// HighlightPositions renders text with the runes at positions styled
// by highlight and the rest by normal.
func HighlightPositions(text string, positions []int, normal, highlight func(string) string) string {
	if len(positions) == 0 {
		return normal(text)
	}
	marked := make(map[int]bool, len(positions))
	for _, position := range positions {
		marked[position] = true
	}

	var builder strings.Builder
	var run []rune
	runMarked := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runMarked {
			builder.WriteString(highlight(string(run)))
		} else {
			builder.WriteString(normal(string(run)))
		}
		run = run[:0]
	}
	for index, character := range []rune(text) {
		if marked[index] != runMarked {
			flush()
			runMarked = marked[index]
		}
		run = append(run, character)
	}
	flush()
	return builder.String()
}
