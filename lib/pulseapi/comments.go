// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import (
	"context"
	"strconv"
)

// CreateComment adds a comment to a post. A nil parent creates a
// top-level comment; otherwise the comment is a reply to parent.
func (client *Client) CreateComment(ctx context.Context, postID int64, content string, parent *int64) (Comment, error) {
	var comment Comment
	err := client.post(ctx, postPath(postID)+"comments/", createCommentRequest{Content: content, Parent: parent}, &comment)
	return comment, err
}

// LikeComment toggles the viewer's like on a comment.
func (client *Client) LikeComment(ctx context.Context, commentID int64) (LikeResult, error) {
	var result LikeResult
	err := client.post(ctx, "comments/"+strconv.FormatInt(commentID, 10)+"/like/", nil, &result)
	return result, err
}

// Leaderboard fetches the karma ranking, highest first.
func (client *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := client.get(ctx, "leaderboard/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
