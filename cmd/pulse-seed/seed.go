// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// threadDepth is the length of each reply chain: a root comment, a
// reply to it, and a reply to the reply.
const threadDepth = 3

// seedConfig sizes a seeding run.
type seedConfig struct {
	Posts        int
	RootComments int
}

// plan is everything a run will create, drawn up front so a given
// faker seed always produces the same content regardless of request
// interleaving. Author fields index the seeder's user clients.
type plan struct {
	posts        []postPlan
	postLikes    []likePlan
	commentLikes []likePlan
}

type postPlan struct {
	author  int
	content string

	// chains[i][0] is a root comment; each later entry replies to the
	// one before it.
	chains [][]commentPlan
}

type commentPlan struct {
	author  int
	content string
}

// likePlan has user like the target'th post, or the target'th comment
// in creation order.
type likePlan struct {
	user   int
	target int
}

// seedSummary counts what a run created.
type seedSummary struct {
	Posts        int
	Comments     int
	PostLikes    int
	CommentLikes int
}

func (summary seedSummary) String() string {
	return fmt.Sprintf("%d posts, %d comments, %d post likes, %d comment likes",
		summary.Posts, summary.Comments, summary.PostLikes, summary.CommentLikes)
}

// drawPlan generates content and authorship for users seeded users.
// Every user likes one post and one comment.
func drawPlan(faker *gofakeit.Faker, users int, config seedConfig) plan {
	var result plan
	for range config.Posts {
		post := postPlan{
			author:  faker.Number(0, users-1),
			content: faker.HackerPhrase() + "\n\n" + faker.Paragraph(1, 3, 12, " "),
		}
		for range config.RootComments {
			chain := make([]commentPlan, threadDepth)
			for depth := range chain {
				chain[depth] = commentPlan{author: faker.Number(0, users-1), content: faker.Sentence(faker.Number(4, 14))}
			}
			post.chains = append(post.chains, chain)
		}
		result.posts = append(result.posts, post)
	}

	if config.Posts == 0 {
		return result
	}
	comments := config.Posts * config.RootComments * threadDepth
	for user := range users {
		result.postLikes = append(result.postLikes, likePlan{user: user, target: faker.Number(0, config.Posts-1)})
		if comments > 0 {
			result.commentLikes = append(result.commentLikes, likePlan{user: user, target: faker.Number(0, comments-1)})
		}
	}
	return result
}

// seeder executes a plan through the public API, one authenticated
// client per user.
type seeder struct {
	clients []*pulseapi.Client
	logger  *slog.Logger
}

// run creates the plan's posts, up to parallel at a time, then its
// likes in order.
func (seeder *seeder) run(ctx context.Context, work plan, parallel int) (seedSummary, error) {
	if parallel <= 0 {
		parallel = 4
	}
	var summary seedSummary

	postIDs := make([]int64, len(work.posts))
	commentIDs := make([][]int64, len(work.posts))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)
	for index, post := range work.posts {
		group.Go(func() error {
			postID, created, err := seeder.createThread(groupCtx, post)
			if err != nil {
				return err
			}
			postIDs[index] = postID
			commentIDs[index] = created
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}

	var flatComments []int64
	for _, created := range commentIDs {
		flatComments = append(flatComments, created...)
	}
	summary.Posts = len(postIDs)
	summary.Comments = len(flatComments)

	for _, like := range work.postLikes {
		if err := seeder.ensureLiked(ctx, like.user, postIDs[like.target], false); err != nil {
			return summary, err
		}
		summary.PostLikes++
	}
	for _, like := range work.commentLikes {
		if err := seeder.ensureLiked(ctx, like.user, flatComments[like.target], true); err != nil {
			return summary, err
		}
		summary.CommentLikes++
	}
	return summary, nil
}

// createThread creates a post and its reply chains, returning the post
// ID and comment IDs in plan order.
func (seeder *seeder) createThread(ctx context.Context, post postPlan) (int64, []int64, error) {
	created, err := seeder.clients[post.author].CreatePost(ctx, post.content)
	if err != nil {
		return 0, nil, fmt.Errorf("creating post: %w", err)
	}
	seeder.logger.Info("created post", "post_id", created.ID, "author", created.Author.Username)

	var commentIDs []int64
	for _, chain := range post.chains {
		var parent *int64
		for _, entry := range chain {
			comment, err := seeder.clients[entry.author].CreateComment(ctx, created.ID, entry.content, parent)
			if err != nil {
				return 0, nil, fmt.Errorf("commenting on post %d: %w", created.ID, err)
			}
			commentIDs = append(commentIDs, comment.ID)
			parent = &comment.ID
		}
	}
	seeder.logger.Debug("created comments", "post_id", created.ID, "count", len(commentIDs))
	return created.ID, commentIDs, nil
}

// ensureLiked toggles a like and toggles again if the first toggle
// removed an existing like, so a repeated like in one run is a no-op.
func (seeder *seeder) ensureLiked(ctx context.Context, user int, id int64, comment bool) error {
	client := seeder.clients[user]
	toggle := client.LikePost
	kind := "post"
	if comment {
		toggle = client.LikeComment
		kind = "comment"
	}

	result, err := toggle(ctx, id)
	if err != nil {
		return fmt.Errorf("liking %s %d as %s: %w", kind, id, client.Username(), err)
	}
	if !result.Liked {
		if _, err := toggle(ctx, id); err != nil {
			return fmt.Errorf("re-liking %s %d as %s: %w", kind, id, client.Username(), err)
		}
	}
	return nil
}
