// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Pulse-seed fills a Pulse backend with demo content through the
// public API: posts, three-deep reply chains, and a post like and a
// comment like from every seeded user.
//
// The accounts themselves (user0, user1, ...) must already exist; the
// API has no registration endpoint. Each run adds new content, so
// running twice doubles the feed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/lib/config"
	"github.com/bureau-foundation/pulse/lib/process"
	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		environment  string
		baseURL      string
		users        int
		passwordFile string
		posts        int
		rootComments int
		parallel     int
		seed         int64
		verbose      bool
		showVersion  bool
	)

	flagSet := pflag.NewFlagSet("pulse-seed", pflag.ContinueOnError)
	flagSet.StringVar(&environment, "env", "development", "environment: development or production")
	flagSet.StringVar(&baseURL, "base-url", "", "API root URL, overriding the environment's")
	flagSet.IntVar(&users, "users", 10, "number of seeded accounts to act as (user0 ...)")
	flagSet.StringVar(&passwordFile, "password-file", "", "file holding the shared account password (default: \"password\")")
	flagSet.IntVar(&posts, "posts", 5, "posts to create")
	flagSet.IntVar(&rootComments, "comments", 3, "reply chains per post")
	flagSet.IntVar(&parallel, "parallel", 4, "posts seeded concurrently")
	flagSet.Int64Var(&seed, "seed", 0, "faker seed; 0 picks one from the clock")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every request")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if showVersion {
		fmt.Printf("pulse-seed %s\n", version.Info())
		return nil
	}
	if users < 1 || posts < 0 || rootComments < 0 {
		return fmt.Errorf("--users must be positive and --posts, --comments non-negative")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.ForEnvironment(config.Environment(environment))
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	cfg.Auth.PasswordFile = passwordFile
	if err := cfg.Validate(); err != nil {
		return err
	}
	password, err := cfg.ReadPassword()
	if err != nil {
		return err
	}
	if password == "" {
		password = "password"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := pulseapi.NewClient(pulseapi.Config{BaseURL: cfg.API.BaseURL, Logger: logger})
	if err != nil {
		return err
	}
	seeder, err := newSeeder(ctx, base, users, password, logger)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("seeding", "base_url", cfg.API.BaseURL, "seed", seed, "users", users, "posts", posts)
	work := drawPlan(gofakeit.New(seed), users, seedConfig{Posts: posts, RootComments: rootComments})

	summary, err := seeder.run(ctx, work, parallel)
	if err != nil {
		return fmt.Errorf("seeding stopped after %s: %w", summary, err)
	}
	fmt.Printf("Seeded %s\n", summary)
	return nil
}

// newSeeder logs in as user0 through user<count-1>.
func newSeeder(ctx context.Context, base *pulseapi.Client, count int, password string, logger *slog.Logger) (*seeder, error) {
	clients := make([]*pulseapi.Client, count)
	for index := range clients {
		credentials := pulseapi.Credentials{Username: fmt.Sprintf("user%d", index), Password: password}
		session, err := pulse.Login(ctx, base, credentials)
		if err != nil {
			return nil, err
		}
		clients[index] = session.Client
	}
	return &seeder{clients: clients, logger: logger}, nil
}
