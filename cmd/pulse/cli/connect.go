// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/pulse/lib/config"
	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// ConnectionParams locate the backend and, optionally, log in. Embed
// it in a command's params struct; [BindFlags] registers its flags
// through AddFlags.
//
// Resolution order for every setting: flag, then config file (from
// --config or PULSE_CONFIG, with the --env section applied), then the
// environment's built-in default.
type ConnectionParams struct {
	ConfigPath   string
	Environment  string
	BaseURL      string
	User         string
	PasswordFile string

	// PromptPassword asks for the password when a user is configured
	// without a password file. Defaults to a no-echo terminal prompt.
	PromptPassword func(username string) (string, error)
}

// AddFlags registers the connection flags.
func (params *ConnectionParams) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&params.ConfigPath, "config", "", "path to pulse.yaml or pulse.jsonc (default: $PULSE_CONFIG)")
	flagSet.StringVar(&params.Environment, "env", "", "environment: development or production")
	flagSet.StringVar(&params.BaseURL, "base-url", "", "API root URL, overriding the environment's")
	flagSet.StringVar(&params.User, "user", "", "log in as this user")
	flagSet.StringVar(&params.PasswordFile, "password-file", "", "file whose first line is the password")
}

// LoadConfig resolves the configuration from the config file and flags
// and validates it.
func (params *ConnectionParams) LoadConfig() (*config.Config, error) {
	environment := config.Environment(params.Environment)

	var cfg *config.Config
	var err error
	switch {
	case params.ConfigPath != "":
		cfg, err = config.LoadFile(params.ConfigPath, environment)
	case os.Getenv("PULSE_CONFIG") != "":
		cfg, err = config.Load(environment)
	default:
		cfg = config.ForEnvironment(environment)
	}
	if err != nil {
		return nil, Validation("%w", err)
	}

	if params.BaseURL != "" {
		cfg.API.BaseURL = params.BaseURL
	}
	if params.User != "" {
		cfg.Auth.Username = params.User
	}
	if params.PasswordFile != "" {
		cfg.Auth.PasswordFile = params.PasswordFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Connect loads the configuration and returns a Store, logged in when a
// user is configured. requireLogin fails early for commands that cannot
// run anonymously.
func (params *ConnectionParams) Connect(ctx context.Context, logger *slog.Logger, requireLogin bool) (*pulse.Store, *config.Config, error) {
	cfg, err := params.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if requireLogin && cfg.Auth.Username == "" {
		return nil, nil, Forbidden("this command needs a login: pass --user or set auth.username")
	}

	client, err := pulseapi.NewClient(pulseapi.Config{BaseURL: cfg.API.BaseURL, Logger: logger})
	if err != nil {
		return nil, nil, Validation("%w", err)
	}
	store, err := pulse.NewStore(pulse.Config{Client: client, Logger: logger})
	if err != nil {
		return nil, nil, Internal("%w", err)
	}

	if cfg.Auth.Username != "" {
		credentials, err := params.credentials(cfg)
		if err != nil {
			store.Cache().Close()
			return nil, nil, err
		}
		if _, err := store.Login(ctx, credentials); err != nil {
			store.Cache().Close()
			return nil, nil, FromAPIError("logging in", err)
		}
		logger.Debug("logged in", "user", credentials.Username, "base_url", cfg.API.BaseURL)
	}
	return store, cfg, nil
}

func (params *ConnectionParams) credentials(cfg *config.Config) (pulseapi.Credentials, error) {
	password, err := cfg.ReadPassword()
	if err != nil {
		return pulseapi.Credentials{}, Validation("%w", err)
	}
	if password == "" {
		prompt := params.PromptPassword
		if prompt == nil {
			prompt = promptTerminalPassword
		}
		if password, err = prompt(cfg.Auth.Username); err != nil {
			return pulseapi.Credentials{}, err
		}
	}
	return pulseapi.Credentials{Username: cfg.Auth.Username, Password: password}, nil
}

func promptTerminalPassword(username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", Validation("no password for %s: pass --password-file or run from a terminal", username)
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", Internal("reading password: %w", err)
	}
	return string(password), nil
}
