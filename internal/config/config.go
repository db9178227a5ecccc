// Package config handles FitMate admin console configuration loading and
// validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	// Server settings for the backend API.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// TUI settings.
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`

	// Stub settings for the development backend.
	Stub StubConfig `yaml:"stub" mapstructure:"stub"`
}

// ServerConfig describes how to reach the FitMate backend.
type ServerConfig struct {
	// BaseURL is the backend root, e.g. "http://localhost:8080".
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Token is the admin session token.
	Token string `yaml:"token" mapstructure:"token"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. The TUI owns the terminal, so
	// console logging is only useful for the stub server.
	File string `yaml:"file" mapstructure:"file"`
}

// TUIConfig contains console behavior settings.
type TUIConfig struct {
	// PollInterval is the dashboard refresh cadence.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// DwellDelay is how long a message must stay visible before it is
	// considered seen.
	DwellDelay time.Duration `yaml:"dwell_delay" mapstructure:"dwell_delay"`

	// Theme selects the color theme (default, high-contrast).
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// StubConfig configures the development stub backend.
type StubConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" mapstructure:"addr"`

	// DatabasePath is the sqlite path; ":memory:" keeps everything
	// in-process.
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`

	// JWTSecret signs stub session tokens.
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`

	// TokenTTL bounds stub session lifetime.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`

	// AdminEmail and AdminPassword seed the stub admin account.
	AdminEmail    string `yaml:"admin_email" mapstructure:"admin_email"`
	AdminPassword string `yaml:"admin_password" mapstructure:"admin_password"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TUI: TUIConfig{
			PollInterval: 30 * time.Second,
			DwellDelay:   500 * time.Millisecond,
			Theme:        "default",
		},
		Stub: StubConfig{
			Addr:          ":8080",
			DatabasePath:  ":memory:",
			JWTSecret:     "fitmate-dev-secret",
			TokenTTL:      12 * time.Hour,
			AdminEmail:    "admin@fitmate.local",
			AdminPassword: "fitmate-admin",
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("server.base_url required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.TUI.PollInterval <= 0 {
		return fmt.Errorf("tui.poll_interval must be positive")
	}
	if c.TUI.DwellDelay <= 0 {
		return fmt.Errorf("tui.dwell_delay must be positive")
	}
	switch c.TUI.Theme {
	case "default", "high-contrast":
	default:
		return fmt.Errorf("tui.theme must be default or high-contrast, got %q", c.TUI.Theme)
	}
	if strings.TrimSpace(c.Stub.JWTSecret) == "" {
		return fmt.Errorf("stub.jwt_secret required")
	}
	return nil
}
