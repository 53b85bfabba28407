// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pulse CLI command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/version"
)

// stdin is read by "post -" and "comment <id> -".
var stdin io.Reader = os.Stdin

// Root builds the command tree. Command output goes to stdout.
func Root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "pulse",
		Description: `Pulse: a terminal client for the Pulse community feed.

Browse posts, like them, follow nested comment threads, and watch the
karma leaderboard, interactively with "pulse ui" or from scripts with
the other commands.`,
		Subcommands: []*cli.Command{
			uiCommand(),
			loginCommand(stdout),
			feedCommand(stdout),
			postCommand(stdout),
			likeCommand(stdout),
			commentsCommand(stdout),
			commentCommand(stdout),
			leaderboardCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(stdout, "pulse %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Open the interactive feed against a local backend",
				Command:     "pulse ui",
			},
			{
				Description: "Browse production as a seeded user",
				Command:     "pulse ui --env production --user user0 --password-file ~/.pulse-password",
			},
			{
				Description: "List the first two feed pages as JSON",
				Command:     "pulse feed --pages 2 --json",
			},
			{
				Description: "Reply to comment 12 on post 7",
				Command:     "pulse comment 7 --reply-to 12 'agreed'",
			},
		},
	}
}

// parseID parses a positional post or comment ID.
func parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid %s ID %q", what, arg)
	}
	return id, nil
}
