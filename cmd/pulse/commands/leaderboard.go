// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulse"
)

type leaderboardParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

func leaderboardCommand(stdout io.Writer) *cli.Command {
	var params leaderboardParams
	return &cli.Command{
		Name:    "leaderboard",
		Summary: "Show the top karma earners of the last 24 hours",
		Description: `Show the karma leaderboard. Karma counts likes received in the last
24 hours: 5 per post like, 1 per comment like.`,
		Usage: "pulse leaderboard [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("leaderboard", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			store, _, err := params.Connect(ctx, logger, false)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			entries, err := store.Leaderboard(ctx)
			if err != nil {
				return cli.FromAPIError("loading leaderboard", err)
			}
			entries = pulse.RankLeaderboard(entries)
			if done, err := params.EmitJSON(stdout, entries); done {
				return err
			}

			fmt.Fprintln(stdout, "Top Karma (Last 24h)")
			if len(entries) == 0 {
				fmt.Fprintln(stdout, "No activity yet.")
				return nil
			}
			tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			for index, entry := range entries {
				fmt.Fprintf(tw, "%d.\t%s\t%d\n", index+1, entry.Username, entry.Karma)
			}
			return tw.Flush()
		},
	}
}
