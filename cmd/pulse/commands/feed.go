// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// excerptWidth bounds the one-line content preview in text output.
const excerptWidth = 72

type feedParams struct {
	cli.ConnectionParams
	cli.JSONOutput
	Pages int  `flag:"pages" desc:"number of feed pages to load" default:"1"`
	All   bool `flag:"all" desc:"load every page"`
}

type feedResult struct {
	Count int             `json:"count"`
	More  bool            `json:"more"`
	Posts []pulseapi.Post `json:"posts"`
}

func feedCommand(stdout io.Writer) *cli.Command {
	var params feedParams
	return &cli.Command{
		Name:    "feed",
		Summary: "List posts, newest first",
		Usage:   "pulse feed [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the first page",
				Command:     "pulse feed",
			},
			{
				Description: "Dump the whole feed as JSON",
				Command:     "pulse feed --all --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("feed", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Pages < 1 && !params.All {
				return cli.Validation("--pages must be at least 1")
			}
			store, _, err := params.Connect(ctx, logger, false)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			feed, err := store.Feed(ctx)
			if err != nil {
				return cli.FromAPIError("loading feed", err)
			}
			for loaded := 1; feed.HasMore() && (params.All || loaded < params.Pages); loaded++ {
				if feed, err = store.LoadMore(ctx); err != nil {
					return cli.FromAPIError("loading more posts", err)
				}
			}

			result := feedResult{Count: feed.Total(), More: feed.HasMore(), Posts: feed.Posts()}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			writeFeed(stdout, result)
			return nil
		},
	}
}

func writeFeed(w io.Writer, result feedResult) {
	if len(result.Posts) == 0 {
		fmt.Fprintln(w, "No posts yet.")
		return
	}
	for _, post := range result.Posts {
		fmt.Fprintf(w, "#%d  %s  %s  %s  %s\n",
			post.ID, post.Author.Username, post.CreatedAt.Local().Format("2006-01-02 15:04"),
			likeSummary(post.IsLiked, post.LikesCount), pluralize(post.CommentsCount, "comment"))
		fmt.Fprintf(w, "    %s\n", excerpt(post.Content))
	}
	footer := fmt.Sprintf("%d of %d posts", len(result.Posts), result.Count)
	if result.More {
		footer += " (more with --pages or --all)"
	}
	fmt.Fprintln(w, footer)
}

func excerpt(content string) string {
	line := strings.Join(strings.Fields(content), " ")
	return ansi.Truncate(line, excerptWidth, "…")
}

func likeSummary(liked bool, count int) string {
	if liked {
		return fmt.Sprintf("♥ %d", count)
	}
	return fmt.Sprintf("♡ %d", count)
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
