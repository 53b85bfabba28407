// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/thread"
)

type commentsParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func commentsCommand(stdout io.Writer) *cli.Command {
	var params commentsParams
	return &cli.Command{
		Name:    "comments",
		Summary: "Show a post with its comment thread",
		Usage:   "pulse comments <post-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("comments", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: pulse comments <post-id>")
			}
			postID, err := parseID("post", args[0])
			if err != nil {
				return err
			}
			store, _, err := params.Connect(ctx, logger, false)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			post, err := store.Post(ctx, postID)
			if err != nil {
				return cli.FromAPIError(fmt.Sprintf("loading post #%d", postID), err)
			}
			if done, err := params.EmitJSON(stdout, post); done {
				return err
			}
			writeThread(stdout, post)
			return nil
		},
	}
}

func writeThread(w io.Writer, post pulseapi.Post) {
	fmt.Fprintf(w, "#%d  %s  %s  %s\n", post.ID, post.Author.Username,
		post.CreatedAt.Local().Format("2006-01-02 15:04"), likeSummary(post.IsLiked, post.LikesCount))
	for _, line := range strings.Split(strings.TrimRight(post.Content, "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}

	count := thread.Count(post.Comments, thread.Comments)
	fmt.Fprintf(w, "\nComments (%d)\n", count)
	if count == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	thread.Walk(post.Comments, thread.Comments, func(comment pulseapi.Comment, depth int) bool {
		indent := strings.Repeat("│ ", depth)
		fmt.Fprintf(w, "%s#%d  %s  %s\n", indent, comment.ID, comment.Author.Username,
			likeSummary(comment.IsLiked, comment.LikesCount))
		for _, line := range strings.Split(strings.TrimRight(comment.Content, "\n"), "\n") {
			fmt.Fprintf(w, "%s    %s\n", indent, line)
		}
		return true
	})
}
