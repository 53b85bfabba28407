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
)

type loginParams struct {
	cli.ConnectionParams
	cli.JSONOutput
}

type loginResult struct {
	Username string `json:"username"`
	BaseURL  string `json:"base_url"`
}

func loginCommand(stdout io.Writer) *cli.Command {
	var params loginParams
	return &cli.Command{
		Name:    "login",
		Summary: "Check credentials against the server",
		Description: `Verify a username and password against the server.

The server has no sessions: every command sends the credentials with
each request, so "login" only checks that they work. The password comes
from --password-file (or auth.password_file), or a prompt.`,
		Usage: "pulse login --user <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the seeded development account",
				Command:     "pulse login --user user0",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("login", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			store, _, err := params.Connect(ctx, logger, true)
			if err != nil {
				return err
			}
			defer store.Cache().Close()

			client := store.Client()
			result := loginResult{Username: client.Username(), BaseURL: client.BaseURL()}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			fmt.Fprintf(stdout, "Logged in as %s at %s\n", result.Username, result.BaseURL)
			return nil
		},
	}
}
