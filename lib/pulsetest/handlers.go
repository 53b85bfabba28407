// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulsetest

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

func (server *Server) handleListPosts(writer http.ResponseWriter, request *http.Request, caller *user, _ []byte) {
	page := 1
	if raw := request.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(writer, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
			return
		}
		page = parsed
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	total := len(server.posts)
	start := (page - 1) * server.pageSize
	if start > 0 && start >= total {
		writeJSON(writer, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
		return
	}
	end := min(start+server.pageSize, total)

	response := pulseapi.PostPage{Count: total, Results: []pulseapi.Post{}}
	for _, stored := range server.posts[start:end] {
		response.Results = append(response.Results, server.postLocked(stored, caller))
	}
	pageURL := func(number int) string {
		link := server.URL + "posts/"
		if number > 1 {
			link += "?page=" + strconv.Itoa(number)
		}
		return link
	}
	if end < total {
		response.Next = pageURL(page + 1)
	}
	if page > 1 {
		response.Previous = pageURL(page - 1)
	}
	writeJSON(writer, http.StatusOK, response)
}

func (server *Server) handleCreatePost(writer http.ResponseWriter, _ *http.Request, caller *user, body []byte) {
	if !requireUser(writer, caller) {
		return
	}
	var payload struct {
		Content string `json:"content"`
	}
	if !decodeContent(writer, body, &payload, func() string { return payload.Content }) {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	created := server.addPostLocked(caller, payload.Content)
	writeJSON(writer, http.StatusCreated, server.postLocked(created, caller))
}

func (server *Server) handleGetPost(writer http.ResponseWriter, request *http.Request, caller *user, _ []byte) {
	id, ok := pathID(request)
	server.mu.Lock()
	defer server.mu.Unlock()
	stored, exists := server.postsByID[id]
	if !ok || !exists {
		notFound(writer)
		return
	}
	detail := server.postLocked(stored, caller)
	detail.Comments = server.commentTreeLocked(id, caller)
	writeJSON(writer, http.StatusOK, detail)
}

func (server *Server) handleLikePost(writer http.ResponseWriter, request *http.Request, caller *user, _ []byte) {
	if !requireUser(writer, caller) {
		return
	}
	id, ok := pathID(request)
	server.mu.Lock()
	defer server.mu.Unlock()
	if _, exists := server.postsByID[id]; !ok || !exists {
		notFound(writer)
		return
	}
	writeJSON(writer, http.StatusOK, server.toggleLocked(server.postLikes, id, caller))
}

func (server *Server) handleCreateComment(writer http.ResponseWriter, request *http.Request, caller *user, body []byte) {
	if !requireUser(writer, caller) {
		return
	}
	id, ok := pathID(request)
	var payload struct {
		Content string `json:"content"`
		Parent  *int64 `json:"parent"`
	}
	if !decodeContent(writer, body, &payload, func() string { return payload.Content }) {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	if _, exists := server.postsByID[id]; !ok || !exists {
		notFound(writer)
		return
	}
	if payload.Parent != nil {
		parent, exists := server.comments[*payload.Parent]
		if !exists || parent.postID != id {
			writeJSON(writer, http.StatusBadRequest, map[string][]string{
				"parent": {"Invalid pk \"" + strconv.FormatInt(*payload.Parent, 10) + "\" - object does not exist."},
			})
			return
		}
	}
	created := server.addCommentLocked(caller, id, payload.Parent, payload.Content)
	writeJSON(writer, http.StatusCreated, server.commentLocked(created, caller))
}

func (server *Server) handleLikeComment(writer http.ResponseWriter, request *http.Request, caller *user, _ []byte) {
	if !requireUser(writer, caller) {
		return
	}
	id, ok := pathID(request)
	server.mu.Lock()
	defer server.mu.Unlock()
	if _, exists := server.comments[id]; !ok || !exists {
		writeJSON(writer, http.StatusNotFound, map[string]string{"detail": "No Comment matches the given query."})
		return
	}
	writeJSON(writer, http.StatusOK, server.toggleLocked(server.commentLikes, id, caller))
}

func (server *Server) handleLeaderboard(writer http.ResponseWriter, _ *http.Request, _ *user, _ []byte) {
	server.mu.Lock()
	defer server.mu.Unlock()
	writeJSON(writer, http.StatusOK, server.leaderboardLocked())
}

func (server *Server) toggleLocked(likes map[int64]map[int64]time.Time, id int64, caller *user) pulseapi.LikeResult {
	likers := likes[id]
	if likers == nil {
		likers = make(map[int64]time.Time)
		likes[id] = likers
	}
	_, liked := likers[caller.id]
	if liked {
		delete(likers, caller.id)
	} else {
		likers[caller.id] = server.clock.Now()
	}
	return pulseapi.LikeResult{Liked: !liked, LikesCount: len(likers)}
}

// leaderboardLocked ranks users by karma earned from likes received in
// the last KarmaWindow: 5 per post like, 1 per comment like.
func (server *Server) leaderboardLocked() []pulseapi.LeaderboardEntry {
	cutoff := server.clock.Now().Add(-KarmaWindow)
	karma := make(map[int64]int)
	for postID, likers := range server.postLikes {
		author := server.postsByID[postID].author
		for _, likedAt := range likers {
			if !likedAt.Before(cutoff) {
				karma[author.id] += 5
			}
		}
	}
	for commentID, likers := range server.commentLikes {
		author := server.comments[commentID].author
		for _, likedAt := range likers {
			if !likedAt.Before(cutoff) {
				karma[author.id]++
			}
		}
	}

	entries := []pulseapi.LeaderboardEntry{}
	for _, account := range server.userOrder {
		if karma[account.id] > 0 {
			entries = append(entries, pulseapi.LeaderboardEntry{Username: account.username, Karma: karma[account.id]})
		}
	}
	slices.SortStableFunc(entries, func(a, b pulseapi.LeaderboardEntry) int {
		return cmp.Compare(b.Karma, a.Karma)
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	return entries
}

func (server *Server) postLocked(stored *post, caller *user) pulseapi.Post {
	likers := server.postLikes[stored.id]
	result := pulseapi.Post{
		ID:         stored.id,
		Content:    stored.content,
		Author:     pulseapi.User{ID: stored.author.id, Username: stored.author.username},
		CreatedAt:  stored.createdAt,
		LikesCount: len(likers),
	}
	if caller != nil {
		_, result.IsLiked = likers[caller.id]
	}
	for _, candidate := range server.commentOrder {
		if candidate.postID == result.ID {
			result.CommentsCount++
		}
	}
	return result
}

func (server *Server) commentLocked(stored *comment, caller *user) pulseapi.Comment {
	likers := server.commentLikes[stored.id]
	result := pulseapi.Comment{
		ID:         stored.id,
		Content:    stored.content,
		Author:     pulseapi.User{ID: stored.author.id, Username: stored.author.username},
		Parent:     stored.parent,
		CreatedAt:  stored.createdAt,
		LikesCount: len(likers),
	}
	if caller != nil {
		_, result.IsLiked = likers[caller.id]
	}
	return result
}

// commentTreeLocked assembles a post's comments, oldest first, into
// reply trees.
func (server *Server) commentTreeLocked(postID int64, caller *user) []pulseapi.Comment {
	children := make(map[int64][]*comment)
	var roots []*comment
	for _, stored := range server.commentOrder {
		if stored.postID != postID {
			continue
		}
		if stored.parent == nil {
			roots = append(roots, stored)
		} else {
			children[*stored.parent] = append(children[*stored.parent], stored)
		}
	}

	var build func(nodes []*comment) []pulseapi.Comment
	build = func(nodes []*comment) []pulseapi.Comment {
		result := make([]pulseapi.Comment, 0, len(nodes))
		for _, stored := range nodes {
			node := server.commentLocked(stored, caller)
			node.Replies = build(children[stored.id])
			result = append(result, node)
		}
		return result
	}
	return build(roots)
}
