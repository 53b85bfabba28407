// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/pulsetest"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/testutil"
)

// likedPostFixture returns a server with one post liked by three other
// users, and a store for user0 with the feed and detail both cached.
func likedPostFixture(t *testing.T) (*pulsetest.Server, *Store, pulseapi.Post) {
	t.Helper()
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "popular")
	for _, liker := range []string{"user2", "user3", "user4"} {
		server.LikePost(liker, post.ID)
	}
	store := newTestStore(t, server, "user0")
	if _, err := store.Feed(context.Background()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := store.Post(context.Background(), post.ID); err != nil {
		t.Fatalf("Post: %v", err)
	}
	return server, store, post
}

func TestTogglePostLike_FailureRestoresPreToggleValues(t *testing.T) {
	server, store, post := likedPostFixture(t)

	server.FailNext(pulsetest.RouteLikePost, http.StatusInternalServerError)
	release := server.Hold(pulsetest.RouteLikePost)
	done := make(chan error, 1)
	go func() {
		_, err := store.TogglePostLike(context.Background(), post.ID)
		done <- err
	}()
	testutil.Eventually(t, testTimeout, func() bool { return server.Count(pulsetest.RouteLikePost) == 1 },
		"waiting for like request")

	for name, optimistic := range map[string]pulseapi.Post{
		"feed":   feedPost(t, store, post.ID),
		"detail": detailPost(t, store, post.ID),
	} {
		if !optimistic.IsLiked || optimistic.LikesCount != 4 {
			t.Errorf("%s during send: liked=%v count=%d, want true 4", name, optimistic.IsLiked, optimistic.LikesCount)
		}
	}

	release()
	err := testutil.RequireReceive(t, done, testTimeout, "like result")
	if !pulseapi.IsServerError(err) {
		t.Fatalf("err = %v, want 500", err)
	}
	for name, restored := range map[string]pulseapi.Post{
		"feed":   feedPost(t, store, post.ID),
		"detail": detailPost(t, store, post.ID),
	} {
		if restored.IsLiked || restored.LikesCount != 3 {
			t.Errorf("%s after failure: liked=%v count=%d, want false 3", name, restored.IsLiked, restored.LikesCount)
		}
	}
}

func TestTogglePostLike_SuccessTakesServerValues(t *testing.T) {
	server, store, post := likedPostFixture(t)
	if _, err := store.Leaderboard(context.Background()); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	// Another user's like lands between the feed load and our toggle, so
	// the optimistic count (4) differs from the server's answer (5).
	server.LikePost("user5", post.ID)

	result, err := store.TogglePostLike(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("TogglePostLike: %v", err)
	}
	if !result.Liked || result.LikesCount != 5 {
		t.Fatalf("result = %+v", result)
	}
	for name, reconciled := range map[string]pulseapi.Post{
		"feed":   feedPost(t, store, post.ID),
		"detail": detailPost(t, store, post.ID),
	} {
		if reconciled.IsLiked != result.Liked || reconciled.LikesCount != result.LikesCount {
			t.Errorf("%s = liked %v count %d, want server %+v", name, reconciled.IsLiked, reconciled.LikesCount, result)
		}
	}

	cache := store.Cache()
	if !cache.Peek(query.LeaderboardKey).Stale {
		t.Error("leaderboard not invalidated")
	}
	if cache.Peek(query.PostsKey).Stale {
		t.Error("feed invalidated by a like; only the leaderboard should be")
	}

	// Toggling again unlikes.
	result, err = store.TogglePostLike(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("TogglePostLike (unlike): %v", err)
	}
	if result.Liked || feedPost(t, store, post.ID).LikesCount != 4 {
		t.Errorf("after unlike: result %+v, feed count %d", result, feedPost(t, store, post.ID).LikesCount)
	}
}

func TestTogglePostLike_FeedOnly(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "feed only")
	store := newTestStore(t, server, "user0")
	if _, err := store.Feed(context.Background()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := store.TogglePostLike(context.Background(), post.ID); err != nil {
		t.Fatalf("TogglePostLike: %v", err)
	}
	if !feedPost(t, store, post.ID).IsLiked {
		t.Error("feed post not liked")
	}
	if store.Cache().Peek(query.PostKey(post.ID)).HasValue {
		t.Error("like created a detail entry that was never fetched")
	}
}

func TestToggleLike_PendingItemsRejected(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	store := newTestStore(t, server, "user0")

	if _, err := store.TogglePostLike(context.Background(), -1); !errors.Is(err, ErrPending) {
		t.Errorf("post err = %v, want ErrPending", err)
	}
	if _, err := store.ToggleCommentLike(context.Background(), 1, -2); !errors.Is(err, ErrPending) {
		t.Errorf("comment err = %v, want ErrPending", err)
	}
	if _, err := store.Reply(context.Background(), 1, -3, "text"); !errors.Is(err, ErrPending) {
		t.Errorf("reply err = %v, want ErrPending", err)
	}
	if len(server.Requests()) != 0 {
		t.Error("pending-item action reached the server")
	}
}

func TestToggleCommentLike(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "post")
	root := server.AddComment("user1", post.ID, nil, "root")
	nested := server.AddComment("user2", post.ID, &root.ID, "nested")
	server.LikeComment("user3", nested.ID)
	store := newTestStore(t, server, "user0")
	if _, err := store.Post(context.Background(), post.ID); err != nil {
		t.Fatalf("Post: %v", err)
	}

	server.FailNext(pulsetest.RouteLikeComment, http.StatusBadGateway)
	if _, err := store.ToggleCommentLike(context.Background(), post.ID, nested.ID); err == nil {
		t.Fatal("expected failure")
	}
	restored := detailPost(t, store, post.ID).Comments[0].Replies[0]
	if restored.IsLiked || restored.LikesCount != 1 {
		t.Errorf("after failure: %+v, want unliked with 1", restored)
	}

	result, err := store.ToggleCommentLike(context.Background(), post.ID, nested.ID)
	if err != nil {
		t.Fatalf("ToggleCommentLike: %v", err)
	}
	liked := detailPost(t, store, post.ID).Comments[0].Replies[0]
	if !liked.IsLiked || liked.LikesCount != result.LikesCount || result.LikesCount != 2 {
		t.Errorf("after success: %+v, result %+v", liked, result)
	}
	if store.Cache().Peek(query.PostKey(post.ID)).Stale {
		t.Error("comment like invalidated the post")
	}
}
