// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/thread"
)

func toggledPost(post pulseapi.Post) pulseapi.Post {
	post.IsLiked, post.LikesCount = thread.ToggleLike(post.IsLiked, post.LikesCount)
	return post
}

func reconciledPost(result pulseapi.LikeResult) func(pulseapi.Post) pulseapi.Post {
	return func(post pulseapi.Post) pulseapi.Post {
		post.IsLiked, post.LikesCount = result.Liked, result.LikesCount
		return post
	}
}

func toggledComment(comment pulseapi.Comment) pulseapi.Comment {
	comment.IsLiked, comment.LikesCount = thread.ToggleLike(comment.IsLiked, comment.LikesCount)
	return comment
}

func reconciledComment(result pulseapi.LikeResult) func(pulseapi.Comment) pulseapi.Comment {
	return func(comment pulseapi.Comment) pulseapi.Comment {
		comment.IsLiked, comment.LikesCount = result.Liked, result.LikesCount
		return comment
	}
}

// updatePostEverywhere applies update to the post in the feed and in
// its detail entry, whichever are cached, and returns the snapshots.
func (store *Store) updatePostEverywhere(postID int64, update func(pulseapi.Post) pulseapi.Post) []query.Snapshot {
	var snapshots []query.Snapshot
	if snapshot, ok := query.SetLocal(store.cache, query.PostsKey, func(feed FeedPages) FeedPages {
		updated, _ := feed.withPost(postID, update)
		return updated
	}); ok {
		snapshots = append(snapshots, snapshot)
	}
	if snapshot, ok := query.SetLocal(store.cache, query.PostKey(postID), update); ok {
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

// TogglePostLike likes or unlikes a post. The flag and count flip
// immediately in the feed and the post's detail entry. On success both
// take the server's values and the leaderboard is invalidated; the
// feed is not refetched. On failure both roll back.
func (store *Store) TogglePostLike(ctx context.Context, postID int64) (pulseapi.LikeResult, error) {
	if IsLocalID(postID) {
		return pulseapi.LikeResult{}, &ValidationError{Field: "post", Err: ErrPending}
	}
	client := store.Client()
	return query.Mutate(ctx, store.cache, query.Mutation[pulseapi.LikeResult]{
		OnBeforeSend: func() []query.Snapshot {
			return store.updatePostEverywhere(postID, toggledPost)
		},
		Send: func(ctx context.Context) (pulseapi.LikeResult, error) {
			return client.LikePost(ctx, postID)
		},
		OnSuccess: func(result pulseapi.LikeResult) {
			store.updatePostEverywhere(postID, reconciledPost(result))
			store.cache.Invalidate(query.LeaderboardKey)
		},
		OnFailure: func(err error) {
			store.logger.Warn("toggling post like failed", "post_id", postID, "error", err)
		},
	})
}

// updateComment applies update to one comment in a post's cached tree.
func (store *Store) updateComment(postID, commentID int64, update func(pulseapi.Comment) pulseapi.Comment) (query.Snapshot, bool) {
	return query.SetLocal(store.cache, query.PostKey(postID), func(post pulseapi.Post) pulseapi.Post {
		post.Comments, _ = thread.Update(post.Comments, thread.Comments, commentID, update)
		return post
	})
}

// ToggleCommentLike likes or unlikes a comment within a post's thread,
// with the same optimistic rules as TogglePostLike scoped to the
// post's detail entry.
func (store *Store) ToggleCommentLike(ctx context.Context, postID, commentID int64) (pulseapi.LikeResult, error) {
	if IsLocalID(commentID) {
		return pulseapi.LikeResult{}, &ValidationError{Field: "comment", Err: ErrPending}
	}
	client := store.Client()
	return query.Mutate(ctx, store.cache, query.Mutation[pulseapi.LikeResult]{
		OnBeforeSend: func() []query.Snapshot {
			if snapshot, ok := store.updateComment(postID, commentID, toggledComment); ok {
				return []query.Snapshot{snapshot}
			}
			return nil
		},
		Send: func(ctx context.Context) (pulseapi.LikeResult, error) {
			return client.LikeComment(ctx, commentID)
		},
		OnSuccess: func(result pulseapi.LikeResult) {
			store.updateComment(postID, commentID, reconciledComment(result))
			store.cache.Invalidate(query.LeaderboardKey)
		},
		OnFailure: func(err error) {
			store.logger.Warn("toggling comment like failed",
				"post_id", postID,
				"comment_id", commentID,
				"error", err,
			)
		},
	})
}
