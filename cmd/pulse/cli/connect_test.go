// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/pulse/lib/config"
	"github.com/bureau-foundation/pulse/lib/pulsetest"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PULSE_CONFIG", "")

	params := ConnectionParams{}
	cfg, err := params.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != config.DevelopmentBaseURL {
		t.Errorf("BaseURL = %q, want development default", cfg.API.BaseURL)
	}

	params = ConnectionParams{Environment: "production"}
	cfg, err = params.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig(production): %v", err)
	}
	if cfg.API.BaseURL != config.ProductionBaseURL {
		t.Errorf("BaseURL = %q, want production default", cfg.API.BaseURL)
	}
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := writeFile(t, "pulse.yaml", `
api:
  base_url: http://file.example/api/
auth:
  username: carol
`)
	t.Setenv("PULSE_CONFIG", path)

	params := ConnectionParams{}
	cfg, err := params.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://file.example/api/" || cfg.Auth.Username != "carol" {
		t.Errorf("file values not applied: %+v", cfg)
	}

	params = ConnectionParams{BaseURL: "http://flag.example/api/", User: "dave"}
	cfg, err = params.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://flag.example/api/" || cfg.Auth.Username != "dave" {
		t.Errorf("flags did not override file: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PULSE_CONFIG", "")

	tests := map[string]ConnectionParams{
		"relative url":  {BaseURL: "api/"},
		"bad env":       {Environment: "staging"},
		"missing file":  {ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")},
		"colon in user": {User: "a:b"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := params.LoadConfig()
			var toolError *ToolError
			if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
				t.Errorf("LoadConfig error = %v, want validation", err)
			}
		})
	}
}

func TestConnect_Anonymous(t *testing.T) {
	t.Setenv("PULSE_CONFIG", "")
	server := pulsetest.New(t, pulsetest.Config{})

	params := ConnectionParams{BaseURL: server.URL}
	store, _, err := params.Connect(context.Background(), discardLogger(), false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer store.Cache().Close()
	if store.Username() != "" {
		t.Errorf("Username = %q, want anonymous", store.Username())
	}

	_, _, err = params.Connect(context.Background(), discardLogger(), true)
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryForbidden {
		t.Errorf("Connect(requireLogin) error = %v, want forbidden", err)
	}
}

func TestConnect_PasswordFile(t *testing.T) {
	t.Setenv("PULSE_CONFIG", "")
	server := pulsetest.New(t, pulsetest.Config{})

	params := ConnectionParams{
		BaseURL:      server.URL,
		User:         "user2",
		PasswordFile: writeFile(t, "password", pulsetest.DefaultPassword+"\n"),
		PromptPassword: func(string) (string, error) {
			t.Error("prompted despite password file")
			return "", nil
		},
	}
	store, cfg, err := params.Connect(context.Background(), discardLogger(), true)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer store.Cache().Close()
	if store.Username() != "user2" {
		t.Errorf("Username = %q, want user2", store.Username())
	}
	if cfg.API.BaseURL != server.URL {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestConnect_Prompt(t *testing.T) {
	t.Setenv("PULSE_CONFIG", "")
	server := pulsetest.New(t, pulsetest.Config{})

	var prompted string
	params := ConnectionParams{
		BaseURL: server.URL,
		User:    "user4",
		PromptPassword: func(username string) (string, error) {
			prompted = username
			return "wrong", nil
		},
	}
	_, _, err := params.Connect(context.Background(), discardLogger(), true)
	if prompted != "user4" {
		t.Errorf("prompted for %q, want user4", prompted)
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryForbidden {
		t.Errorf("Connect error = %v, want forbidden", err)
	}
}
