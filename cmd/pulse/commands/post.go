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
)

type postParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func postCommand(stdout io.Writer) *cli.Command {
	var params postParams
	return &cli.Command{
		Name:    "post",
		Summary: "Publish a post",
		Description: `Publish a post. The content is the remaining arguments joined with
spaces, or standard input when the only argument is "-". Blank content
is rejected without contacting the server.`,
		Usage: "pulse post <content...> [flags]",
		Examples: []cli.Example{
			{
				Description: "Post a one-liner",
				Command:     "pulse post --user user0 'hello'",
			},
			{
				Description: "Post a markdown file",
				Command:     "pulse post --user user0 - < notes.md",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("post", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			content, err := contentFromArgs(args, "post")
			if err != nil {
				return err
			}
			store, _, err := params.Connect(ctx, logger, true)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			post, err := store.CreatePost(ctx, content)
			if err != nil {
				return cli.FromAPIError("creating post", err)
			}
			if done, err := params.EmitJSON(stdout, post); done {
				return err
			}
			fmt.Fprintf(stdout, "Created post #%d\n", post.ID)
			return nil
		},
	}
}

// contentFromArgs joins args into post or comment content; a lone "-"
// reads standard input. Blank content is a validation error, returned
// before anything contacts the server.
func contentFromArgs(args []string, what string) (string, error) {
	if len(args) == 0 {
		return "", cli.Validation("%s content required", what)
	}
	content := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", cli.Internal("reading %s from stdin: %w", what, err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return "", cli.Validation("%s content is blank", what)
	}
	return content, nil
}
