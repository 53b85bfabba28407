// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulsetest

import (
	"time"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// AddUser creates an account and returns its public form.
func (server *Server) AddUser(username, password string) pulseapi.User {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.nextID++
	account := &user{id: server.nextID, username: username, password: password}
	server.users[username] = account
	server.userOrder = append(server.userOrder, account)
	return pulseapi.User{ID: account.id, Username: username}
}

// AddPost creates a post by an existing user, bypassing the API.
// Panics if the user does not exist.
func (server *Server) AddPost(username, content string) pulseapi.Post {
	server.mu.Lock()
	defer server.mu.Unlock()
	author := server.mustUserLocked(username)
	return server.postLocked(server.addPostLocked(author, content), author)
}

// AddComment creates a comment, or a reply when parent is non-nil,
// bypassing the API.
func (server *Server) AddComment(username string, postID int64, parent *int64, content string) pulseapi.Comment {
	server.mu.Lock()
	defer server.mu.Unlock()
	author := server.mustUserLocked(username)
	return server.commentLocked(server.addCommentLocked(author, postID, parent, content), author)
}

// LikePost records a like on a post by username, as of the server
// clock. Liking twice is a no-op.
func (server *Server) LikePost(username string, postID int64) {
	server.like(server.postLikes, username, postID)
}

// LikeComment records a like on a comment by username.
func (server *Server) LikeComment(username string, commentID int64) {
	server.like(server.commentLikes, username, commentID)
}

func (server *Server) like(likes map[int64]map[int64]time.Time, username string, id int64) {
	server.mu.Lock()
	defer server.mu.Unlock()
	liker := server.mustUserLocked(username)
	if likes[id] == nil {
		likes[id] = make(map[int64]time.Time)
	}
	if _, exists := likes[id][liker.id]; !exists {
		likes[id][liker.id] = server.clock.Now()
	}
}

// Post returns the current server view of a post, with its comment
// tree, as seen by username ("" for anonymous).
func (server *Server) Post(username string, id int64) (pulseapi.Post, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	stored, ok := server.postsByID[id]
	if !ok {
		return pulseapi.Post{}, false
	}
	viewer := server.users[username]
	result := server.postLocked(stored, viewer)
	result.Comments = server.commentTreeLocked(id, viewer)
	return result, true
}

// PostCount returns the number of posts.
func (server *Server) PostCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.posts)
}

// CommentCount returns the number of comments across all posts.
func (server *Server) CommentCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.commentOrder)
}

func (server *Server) mustUserLocked(username string) *user {
	account, ok := server.users[username]
	if !ok {
		panic("pulsetest: unknown user " + username)
	}
	return account
}

func (server *Server) addPostLocked(author *user, content string) *post {
	server.nextID++
	created := &post{
		id:        server.nextID,
		content:   content,
		author:    author,
		createdAt: server.clock.Now(),
	}
	server.posts = append([]*post{created}, server.posts...)
	server.postsByID[created.id] = created
	return created
}

func (server *Server) addCommentLocked(author *user, postID int64, parent *int64, content string) *comment {
	server.nextID++
	created := &comment{
		id:        server.nextID,
		postID:    postID,
		content:   content,
		author:    author,
		createdAt: server.clock.Now(),
	}
	if parent != nil {
		parentID := *parent
		created.parent = &parentID
	}
	server.comments[created.id] = created
	server.commentOrder = append(server.commentOrder, created)
	return created
}
