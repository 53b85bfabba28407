// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import "time"

// User is the author reference embedded in posts and comments.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Post is a feed entry. Comments is populated only by GetPost; feed
// listings leave it nil.
type Post struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	Author        User      `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	IsLiked       bool      `json:"is_liked"`
	CommentsCount int       `json:"comments_count,omitempty"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Comment is one node of a post's comment tree. Parent is nil for
// top-level comments. Replies holds the comments whose Parent is this
// comment's ID, in server order (oldest first).
type Comment struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Author     User      `json:"author"`
	Parent     *int64    `json:"parent"`
	CreatedAt  time.Time `json:"created_at"`
	LikesCount int       `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
	Replies    []Comment `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment has no parent.
func (comment Comment) IsTopLevel() bool { return comment.Parent == nil }

// LikeResult is the server's authoritative state after a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// LeaderboardEntry is one ranked user. Rank is implied by position in
// the server's response, which is ordered by descending karma.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Karma    int    `json:"karma"`
}

// PostPage is one page of the feed. Next is the absolute URL of the
// following page, empty on the last page.
type PostPage struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Post `json:"results"`
}

// HasNext reports whether another page follows this one.
func (page PostPage) HasNext() bool { return page.Next != "" }

// createPostRequest is the body of POST posts/.
type createPostRequest struct {
	Content string `json:"content"`
}

// createCommentRequest is the body of POST posts/{id}/comments/.
type createCommentRequest struct {
	Content string `json:"content"`
	Parent  *int64 `json:"parent,omitempty"`
}
