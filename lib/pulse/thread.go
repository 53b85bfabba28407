// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/thread"
)

// Post returns a post with its comment tree.
func (store *Store) Post(ctx context.Context, postID int64) (pulseapi.Post, error) {
	return query.Get(ctx, store.cache, query.PostKey(postID), store.postFetcher(postID))
}

// RefreshPost refetches a post and waits for the result. It backs the
// retry action of a failed comment section.
func (store *Store) RefreshPost(ctx context.Context, postID int64) (pulseapi.Post, error) {
	return query.Refresh(ctx, store.cache, query.PostKey(postID), store.postFetcher(postID))
}

func (store *Store) postFetcher(postID int64) func(context.Context) (pulseapi.Post, error) {
	return func(ctx context.Context) (pulseapi.Post, error) {
		return store.Client().GetPost(ctx, postID)
	}
}

// AddComment posts a top-level comment on a post.
func (store *Store) AddComment(ctx context.Context, postID int64, content string) (pulseapi.Comment, error) {
	return store.addComment(ctx, postID, nil, content)
}

// Reply posts a reply to an existing comment.
func (store *Store) Reply(ctx context.Context, postID, parentID int64, content string) (pulseapi.Comment, error) {
	if IsLocalID(parentID) {
		return pulseapi.Comment{}, &ValidationError{Field: "reply", Err: ErrPending}
	}
	return store.addComment(ctx, postID, &parentID, content)
}

// addComment inserts a synthetic comment under parent (or at the top
// level), sends it, and on success swaps in the server's comment and
// invalidates the post so the next read revalidates the whole tree. On
// failure the tree rolls back to exactly its previous value.
func (store *Store) addComment(ctx context.Context, postID int64, parent *int64, content string) (pulseapi.Comment, error) {
	field := "comment"
	if parent != nil {
		field = "reply"
	}
	if err := validateContent(field, content); err != nil {
		return pulseapi.Comment{}, err
	}

	optimistic := pulseapi.Comment{
		ID:        store.nextLocalID(),
		Content:   content,
		Author:    pulseapi.User{Username: store.authorName()},
		Parent:    parent,
		CreatedAt: store.clock.Now(),
	}
	key := query.PostKey(postID)
	client := store.Client()

	return query.Mutate(ctx, store.cache, query.Mutation[pulseapi.Comment]{
		OnBeforeSend: func() []query.Snapshot {
			snapshot, ok := query.SetLocal(store.cache, key, func(post pulseapi.Post) pulseapi.Post {
				comments, inserted := thread.Insert(post.Comments, thread.Comments, parent, optimistic)
				if inserted {
					post.Comments = comments
					post.CommentsCount++
				}
				return post
			})
			if !ok {
				return nil
			}
			return []query.Snapshot{snapshot}
		},
		Send: func(ctx context.Context) (pulseapi.Comment, error) {
			return client.CreateComment(ctx, postID, content, parent)
		},
		OnSuccess: func(created pulseapi.Comment) {
			query.SetLocal(store.cache, key, func(post pulseapi.Post) pulseapi.Post {
				post.Comments, _ = thread.Update(post.Comments, thread.Comments, optimistic.ID,
					func(local pulseapi.Comment) pulseapi.Comment {
						created.Replies = local.Replies
						return created
					})
				return post
			})
			store.cache.Invalidate(key)
		},
		OnFailure: func(err error) {
			store.logger.Warn("adding comment failed", "post_id", postID, "error", err)
		},
	})
}
