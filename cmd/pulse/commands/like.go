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

type likeParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Comment int64 `flag:"comment" desc:"toggle the like on this comment of the post instead"`
}

func likeCommand(stdout io.Writer) *cli.Command {
	var params likeParams
	return &cli.Command{
		Name:    "like",
		Summary: "Toggle a like on a post or comment",
		Description: `Toggle your like on a post, or on one of its comments with --comment.
Liking twice unlikes. Prints the server's resulting state.`,
		Usage: "pulse like <post-id> [--comment <comment-id>] [flags]",
		Examples: []cli.Example{
			{
				Description: "Like post 7",
				Command:     "pulse like --user user0 7",
			},
			{
				Description: "Like comment 12 on post 7",
				Command:     "pulse like --user user0 7 --comment 12",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("like", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: pulse like <post-id> [--comment <comment-id>]")
			}
			postID, err := parseID("post", args[0])
			if err != nil {
				return err
			}
			if params.Comment < 0 {
				return cli.Validation("invalid comment ID %d", params.Comment)
			}
			store, _, err := params.Connect(ctx, logger, true)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			var result pulseapi.LikeResult
			target := fmt.Sprintf("post #%d", postID)
			if params.Comment != 0 {
				target = fmt.Sprintf("comment #%d", params.Comment)
				result, err = store.ToggleCommentLike(ctx, postID, params.Comment)
			} else {
				result, err = store.TogglePostLike(ctx, postID)
			}
			if err != nil {
				return cli.FromAPIError("liking "+target, err)
			}

			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			verb := "Unliked"
			if result.Liked {
				verb = "Liked"
			}
			fmt.Fprintf(stdout, "%s %s (%s)\n", verb, target, pluralize(result.LikesCount, "like"))
			return nil
		},
	}
}
