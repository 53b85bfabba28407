// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"strconv"
	"strings"
)

// Key identifies a cache entry.
type Key string

const (
	// PostsKey holds the accumulated feed pages.
	PostsKey Key = "posts"

	// LeaderboardKey holds the karma leaderboard.
	LeaderboardKey Key = "leaderboard"

	postKeyPrefix = "post:"
)

// PostKey is the key of a single post with its comment tree.
func PostKey(id int64) Key {
	return Key(postKeyPrefix + strconv.FormatInt(id, 10))
}

// PostID extracts the post ID from a key built by PostKey.
func (key Key) PostID() (int64, bool) {
	rest, ok := strings.CutPrefix(string(key), postKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (key Key) String() string { return string(key) }
