// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulseui"
)

type uiParams struct {
	cli.ConnectionParams
	LogOutput string `flag:"log-output" desc:"append JSON debug logs to this file while the UI runs"`
}

func uiCommand() *cli.Command {
	var params uiParams
	return &cli.Command{
		Name:    "ui",
		Summary: "Open the interactive feed",
		Description: `Open the interactive terminal UI: the feed with a live leaderboard,
comment threads, likes, posting, and login.

Warnings (failed likes, leaderboard refresh errors) appear in the
status bar. Pass --log-output to also keep a JSON log file.`,
		Usage: "pulse ui [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("ui", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runUI(ctx, &params, logger)
		},
	}
}

func runUI(ctx context.Context, params *uiParams, commandLogger *slog.Logger) error {
	cfg, err := params.LoadConfig()
	if err != nil {
		return err
	}
	interval, err := cfg.LeaderboardEvery()
	if err != nil {
		return cli.Validation("%w", err)
	}

	// Inside the alt screen stderr is not visible, so records go to the
	// status bar and optionally a file.
	tuiHandler := pulseui.NewTUILogHandler(slog.LevelWarn)
	var handler slog.Handler = tuiHandler
	logOutput := params.LogOutput
	if logOutput == "" {
		logOutput = cfg.UI.LogOutput
	}
	if logOutput != "" {
		fileHandler, closer, err := cli.OpenLogFile(logOutput)
		if err != nil {
			return cli.Validation("%w", err)
		}
		defer closer.Close()
		handler = teeHandler{tuiHandler, fileHandler}
	}
	logger := slog.New(handler)

	// Login (and any password prompt) happens before the alt screen.
	store, _, err := params.Connect(ctx, logger, false)
	if err != nil {
		return err
	}
	defer store.Cache().Close()

	model := pulseui.NewModel(pulseui.Config{
		Store:               store,
		LeaderboardInterval: interval,
		Logger:              logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	tuiHandler.SetProgram(program)

	final, err := program.Run()
	if finalModel, ok := final.(pulseui.Model); ok {
		finalModel.Close()
	} else {
		model.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		commandLogger.Error("ui exited", "error", err)
		return cli.Internal("running ui: %w", err)
	}
	return nil
}

// teeHandler sends each record to every handler that accepts its level.
type teeHandler []slog.Handler

func (handlers teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (handlers teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(teeHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers teeHandler) WithGroup(name string) slog.Handler {
	derived := make(teeHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
