// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"context"
	"fmt"
	"slices"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/thread"
)

// FeedPages is the value cached under query.PostsKey: every page
// loaded so far, in server order.
type FeedPages struct {
	Pages []pulseapi.PostPage
}

// Posts returns the loaded posts in server order.
func (feed FeedPages) Posts() []pulseapi.Post {
	var posts []pulseapi.Post
	for _, page := range feed.Pages {
		posts = append(posts, page.Results...)
	}
	return posts
}

// HasMore reports whether the server has pages beyond those loaded.
func (feed FeedPages) HasMore() bool {
	return len(feed.Pages) > 0 && feed.Pages[len(feed.Pages)-1].HasNext()
}

// Total is the server's post count as of the first page.
func (feed FeedPages) Total() int {
	if len(feed.Pages) == 0 {
		return 0
	}
	return feed.Pages[0].Count
}

// withPost replaces the post identified by id with update(post),
// copying only the page that holds it.
func (feed FeedPages) withPost(id int64, update func(pulseapi.Post) pulseapi.Post) (FeedPages, bool) {
	for index, page := range feed.Pages {
		results, found := thread.Update(page.Results, thread.Posts, id, update)
		if !found {
			continue
		}
		pages := slices.Clone(feed.Pages)
		page.Results = results
		pages[index] = page
		return FeedPages{Pages: pages}, true
	}
	return feed, false
}

// withPrepended places post at the top of the first page.
func (feed FeedPages) withPrepended(post pulseapi.Post) FeedPages {
	if len(feed.Pages) == 0 {
		return FeedPages{Pages: []pulseapi.PostPage{{Count: 1, Results: []pulseapi.Post{post}}}}
	}
	pages := slices.Clone(feed.Pages)
	first := pages[0]
	first.Results = thread.Prepend(first.Results, post)
	first.Count++
	pages[0] = first
	return FeedPages{Pages: pages}
}

// withPage appends a newly loaded page, dropping posts already present.
// Posts created since the earlier pages loaded shift older posts
// forward, so page boundaries can repeat them.
func (feed FeedPages) withPage(page pulseapi.PostPage) FeedPages {
	seen := make(map[int64]bool)
	for _, post := range feed.Posts() {
		seen[post.ID] = true
	}
	fresh := make([]pulseapi.Post, 0, len(page.Results))
	for _, post := range page.Results {
		if !seen[post.ID] {
			fresh = append(fresh, post)
		}
	}
	page.Results = fresh
	pages := make([]pulseapi.PostPage, len(feed.Pages), len(feed.Pages)+1)
	copy(pages, feed.Pages)
	return FeedPages{Pages: append(pages, page)}
}

// Feed returns the feed, loading the first page on first use.
func (store *Store) Feed(ctx context.Context) (FeedPages, error) {
	return query.Get(ctx, store.cache, query.PostsKey, store.fetchFeed)
}

// RefreshFeed refetches every loaded page and waits for the result.
func (store *Store) RefreshFeed(ctx context.Context) (FeedPages, error) {
	return query.Refresh(ctx, store.cache, query.PostsKey, store.fetchFeed)
}

// fetchFeed loads as many pages as are currently cached, at least one,
// so a revalidation never shrinks what the reader has scrolled through.
func (store *Store) fetchFeed(ctx context.Context) (FeedPages, error) {
	client := store.Client()
	want := 1
	if current, ok := query.PeekValue[FeedPages](store.cache, query.PostsKey); ok {
		want = max(len(current.Pages), 1)
	}

	var feed FeedPages
	for number := 1; number <= want; number++ {
		page, err := client.ListPosts(ctx, number)
		if err != nil {
			// The feed can shrink below the loaded page count.
			if number > 1 && pulseapi.IsNotFound(err) {
				break
			}
			return FeedPages{}, fmt.Errorf("loading feed page %d: %w", number, err)
		}
		feed = feed.withPage(page)
		if !page.HasNext() {
			break
		}
	}
	return feed, nil
}

// LoadMore fetches the page after the last loaded one and appends it.
// Without further pages it returns the feed unchanged.
func (store *Store) LoadMore(ctx context.Context) (FeedPages, error) {
	current, ok := query.PeekValue[FeedPages](store.cache, query.PostsKey)
	if !ok {
		return store.Feed(ctx)
	}
	if !current.HasMore() {
		return current, nil
	}

	number := len(current.Pages) + 1
	page, err := store.Client().ListPosts(ctx, number)
	if err != nil {
		return current, fmt.Errorf("loading feed page %d: %w", number, err)
	}
	query.SetLocal(store.cache, query.PostsKey, func(feed FeedPages) FeedPages {
		return feed.withPage(page)
	})
	updated, _ := query.PeekValue[FeedPages](store.cache, query.PostsKey)
	return updated, nil
}

// CreatePost publishes a post. A synthetic post by the current user
// appears at the top of the feed immediately and is replaced by the
// server's post on success; on failure the feed is rolled back and the
// error returned so the caller can restore the draft.
func (store *Store) CreatePost(ctx context.Context, content string) (pulseapi.Post, error) {
	if err := validateContent("post", content); err != nil {
		return pulseapi.Post{}, err
	}

	optimistic := pulseapi.Post{
		ID:        store.nextLocalID(),
		Content:   content,
		Author:    pulseapi.User{Username: store.authorName()},
		CreatedAt: store.clock.Now(),
	}
	client := store.Client()

	return query.Mutate(ctx, store.cache, query.Mutation[pulseapi.Post]{
		OnBeforeSend: func() []query.Snapshot {
			snapshot, ok := query.SetLocal(store.cache, query.PostsKey, func(feed FeedPages) FeedPages {
				return feed.withPrepended(optimistic)
			})
			if !ok {
				return nil
			}
			return []query.Snapshot{snapshot}
		},
		Send: func(ctx context.Context) (pulseapi.Post, error) {
			return client.CreatePost(ctx, content)
		},
		OnSuccess: func(created pulseapi.Post) {
			query.SetLocal(store.cache, query.PostsKey, func(feed FeedPages) FeedPages {
				updated, _ := feed.withPost(optimistic.ID, func(pulseapi.Post) pulseapi.Post { return created })
				return updated
			})
			// A new post has no comments yet, so the response is its
			// complete thread.
			query.Set(store.cache, query.PostKey(created.ID), created)
			store.cache.Invalidate(query.PostsKey)
		},
		OnFailure: func(err error) {
			store.logger.Warn("creating post failed", "error", err)
		},
	})
}
