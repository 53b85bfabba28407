// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListPosts fetches one page of the feed, newest first. Pages are
// 1-based. A server without pagination answers with a bare JSON array;
// that decodes to a single page with no Next.
func (client *Client) ListPosts(ctx context.Context, page int) (PostPage, error) {
	if page < 1 {
		return PostPage{}, fmt.Errorf("pulseapi: page must be >= 1 (got %d)", page)
	}
	var query url.Values
	if page > 1 {
		query = url.Values{"page": {strconv.Itoa(page)}}
	}
	body, err := client.do(ctx, http.MethodGet, "posts/", query, nil)
	if err != nil {
		return PostPage{}, err
	}
	return decodePostPage(body)
}

// decodePostPage accepts either the paged envelope or a bare list.
func decodePostPage(body []byte) (PostPage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var posts []Post
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return PostPage{}, fmt.Errorf("pulseapi: decoding post list: %w", err)
		}
		return PostPage{Count: len(posts), Results: posts}, nil
	}
	var page PostPage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return PostPage{}, fmt.Errorf("pulseapi: decoding post page: %w", err)
	}
	return page, nil
}

// CreatePost publishes a post as the authenticated user.
func (client *Client) CreatePost(ctx context.Context, content string) (Post, error) {
	var post Post
	err := client.post(ctx, "posts/", createPostRequest{Content: content}, &post)
	return post, err
}

// GetPost fetches a post with its full comment tree.
func (client *Client) GetPost(ctx context.Context, postID int64) (Post, error) {
	var post Post
	err := client.get(ctx, postPath(postID), nil, &post)
	return post, err
}

// LikePost toggles the viewer's like on a post and returns the
// resulting state.
func (client *Client) LikePost(ctx context.Context, postID int64) (LikeResult, error) {
	var result LikeResult
	err := client.post(ctx, postPath(postID)+"like/", nil, &result)
	return result, err
}

func postPath(postID int64) string {
	return "posts/" + strconv.FormatInt(postID, 10) + "/"
}
