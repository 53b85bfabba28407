// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment selects which API deployment the client talks to.
type Environment string

const (
	// Development is a backend on the local machine.
	Development Environment = "development"
	// Production is the hosted backend.
	Production Environment = "production"
)

const (
	// DevelopmentBaseURL is the API root of a local backend.
	DevelopmentBaseURL = "http://localhost:8000/api/"
	// ProductionBaseURL is the API root of the hosted backend.
	ProductionBaseURL = "https://playto-pulse.onrender.com/api/"
)

// Config is the pulse client configuration.
type Config struct {
	// Environment selects the override section and default base URL.
	Environment Environment `yaml:"environment" json:"environment"`

	API  APIConfig  `yaml:"api" json:"api"`
	Auth AuthConfig `yaml:"auth" json:"auth"`
	UI   UIConfig   `yaml:"ui" json:"ui"`

	Development *ConfigOverrides `yaml:"development,omitempty" json:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	API  *APIConfig  `yaml:"api,omitempty" json:"api,omitempty"`
	Auth *AuthConfig `yaml:"auth,omitempty" json:"auth,omitempty"`
	UI   *UIConfig   `yaml:"ui,omitempty" json:"ui,omitempty"`
}

// APIConfig locates the backend.
type APIConfig struct {
	// BaseURL is the API root; request paths are resolved against it.
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// AuthConfig supplies default login credentials for CLI commands.
type AuthConfig struct {
	// Username logs in automatically when set.
	Username string `yaml:"username" json:"username"`

	// PasswordFile holds the password on its first line. Passwords are
	// never stored in the config file itself.
	PasswordFile string `yaml:"password_file" json:"password_file"`
}

// UIConfig tunes the terminal UI.
type UIConfig struct {
	// LeaderboardInterval is how often the leaderboard refreshes, as a
	// Go duration. Default: 30s.
	LeaderboardInterval string `yaml:"leaderboard_interval" json:"leaderboard_interval"`

	// LogOutput, when set, receives JSON logs while the UI runs.
	LogOutput string `yaml:"log_output" json:"log_output"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		API:         APIConfig{BaseURL: DevelopmentBaseURL},
		UI:          UIConfig{LeaderboardInterval: "30s"},
	}
}

// ForEnvironment returns the defaults with environment's built-in
// overrides applied. Used when no config file is given.
func ForEnvironment(environment Environment) *Config {
	cfg := Default()
	if environment != "" {
		cfg.Environment = environment
	}
	cfg.applyEnvironmentOverrides()
	return cfg
}

// Load loads configuration from the file named by PULSE_CONFIG.
func Load(environment Environment) (*Config, error) {
	configPath := os.Getenv("PULSE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PULSE_CONFIG environment variable not set; " +
			"set it to the path of your pulse.yaml config file, or use --config flag")
	}
	return LoadFile(configPath, environment)
}

// LoadFile loads configuration from path. A non-empty environment
// replaces the file's environment field before overrides are applied.
func LoadFile(path string, environment Environment) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if environment != "" {
		cfg.Environment = environment
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// The hosted API unless the file names another. A base_url
		// left at the development default is treated as unset.
		if c.API.BaseURL == "" || c.API.BaseURL == DevelopmentBaseURL {
			c.API.BaseURL = ProductionBaseURL
		}
	}
	if overrides == nil {
		return
	}

	if overrides.API != nil && overrides.API.BaseURL != "" {
		c.API.BaseURL = overrides.API.BaseURL
	}
	if overrides.Auth != nil {
		if overrides.Auth.Username != "" {
			c.Auth.Username = overrides.Auth.Username
		}
		if overrides.Auth.PasswordFile != "" {
			c.Auth.PasswordFile = overrides.Auth.PasswordFile
		}
	}
	if overrides.UI != nil {
		if overrides.UI.LeaderboardInterval != "" {
			c.UI.LeaderboardInterval = overrides.UI.LeaderboardInterval
		}
		if overrides.UI.LogOutput != "" {
			c.UI.LogOutput = overrides.UI.LogOutput
		}
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}
	c.API.BaseURL = expandVars(c.API.BaseURL, vars)
	c.Auth.Username = expandVars(c.Auth.Username, vars)
	c.Auth.PasswordFile = expandVars(c.Auth.PasswordFile, vars)
	c.UI.LogOutput = expandVars(c.UI.LogOutput, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// LeaderboardEvery returns the parsed leaderboard interval.
func (c *Config) LeaderboardEvery() (time.Duration, error) {
	interval, err := time.ParseDuration(c.UI.LeaderboardInterval)
	if err != nil {
		return 0, fmt.Errorf("ui.leaderboard_interval: %w", err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("ui.leaderboard_interval must be positive, got %s", interval)
	}
	return interval, nil
}

// ReadPassword reads the password from Auth.PasswordFile. Returns ""
// with no error when no file is configured.
func (c *Config) ReadPassword() (string, error) {
	if c.Auth.PasswordFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Auth.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	password, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimRight(password, "\r"), nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	} else if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL))
	}

	if strings.Contains(c.Auth.Username, ":") {
		errs = append(errs, errors.New("auth.username must not contain ':'"))
	}

	if _, err := c.LeaderboardEvery(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
