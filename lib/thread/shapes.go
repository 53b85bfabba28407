// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package thread

import "github.com/bureau-foundation/pulse/lib/pulseapi"

// Comments is the Shape of a comment thread.
var Comments = Shape[pulseapi.Comment]{
	ID:       func(comment pulseapi.Comment) int64 { return comment.ID },
	Children: func(comment pulseapi.Comment) []pulseapi.Comment { return comment.Replies },
	WithChildren: func(comment pulseapi.Comment, replies []pulseapi.Comment) pulseapi.Comment {
		comment.Replies = replies
		return comment
	},
}

// Posts is the Shape of the feed: a flat list with no children.
var Posts = Shape[pulseapi.Post]{
	ID: func(post pulseapi.Post) int64 { return post.ID },
}

// ToggleLike flips a like flag and moves the count by exactly one in
// the matching direction. The count never goes below zero.
func ToggleLike(liked bool, count int) (bool, int) {
	if liked {
		if count > 0 {
			count--
		}
		return false, count
	}
	return true, count + 1
}
