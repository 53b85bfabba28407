// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

type commentParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	ReplyTo int64 `flag:"reply-to" desc:"reply to this comment instead of the post"`
}

func commentCommand(stdout io.Writer) *cli.Command {
	var params commentParams
	return &cli.Command{
		Name:    "comment",
		Summary: "Comment on a post, or reply to a comment",
		Usage:   "pulse comment <post-id> <content...> [--reply-to <comment-id>] [flags]",
		Examples: []cli.Example{
			{
				Description: "Comment on post 7",
				Command:     "pulse comment --user user0 7 'nice post'",
			},
			{
				Description: "Reply to comment 12",
				Command:     "pulse comment --user user0 7 --reply-to 12 'agreed'",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("comment", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return cli.Validation("usage: pulse comment <post-id> <content...>")
			}
			postID, err := parseID("post", args[0])
			if err != nil {
				return err
			}
			content, err := contentFromArgs(args[1:], "comment")
			if err != nil {
				return err
			}
			if params.ReplyTo < 0 {
				return cli.Validation("invalid comment ID %d", params.ReplyTo)
			}
			store, _, err := params.Connect(ctx, logger, true)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			var comment pulseapi.Comment
			if params.ReplyTo != 0 {
				comment, err = store.Reply(ctx, postID, params.ReplyTo, content)
			} else {
				comment, err = store.AddComment(ctx, postID, content)
			}
			if err != nil {
				return cli.FromAPIError(fmt.Sprintf("commenting on post #%d", postID), err)
			}

			if done, err := params.EmitJSON(stdout, comment); done {
				return err
			}
			if comment.Parent != nil {
				fmt.Fprintf(stdout, "Created reply #%d to comment #%d\n", comment.ID, *comment.Parent)
			} else {
				fmt.Fprintf(stdout, "Created comment #%d on post #%d\n", comment.ID, postID)
			}
			return nil
		},
	}
}
