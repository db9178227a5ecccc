package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		// Config file is optional, only error if explicitly specified
		if l.configFile != "" {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setupViper configures Viper with defaults and environment bindings.
func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "fitmate"))
	}
	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "fitmate"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("FITMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)

	// Explicitly bind environment variables (Viper's Unmarshal has
	// issues without this)
	for _, key := range []string{
		"server.base_url",
		"server.token",
		"server.timeout",
		"logging.level",
		"logging.format",
		"logging.file",
		"tui.poll_interval",
		"tui.dwell_delay",
		"tui.theme",
		"stub.addr",
		"stub.database_path",
		"stub.jwt_secret",
		"stub.token_ttl",
		"stub.admin_email",
		"stub.admin_password",
	} {
		_ = v.BindEnv(key)
	}

	v.AutomaticEnv()
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	v.SetDefault("server.base_url", cfg.Server.BaseURL)
	v.SetDefault("server.token", cfg.Server.Token)
	v.SetDefault("server.timeout", cfg.Server.Timeout)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)

	v.SetDefault("tui.poll_interval", cfg.TUI.PollInterval)
	v.SetDefault("tui.dwell_delay", cfg.TUI.DwellDelay)
	v.SetDefault("tui.theme", cfg.TUI.Theme)

	v.SetDefault("stub.addr", cfg.Stub.Addr)
	v.SetDefault("stub.database_path", cfg.Stub.DatabasePath)
	v.SetDefault("stub.jwt_secret", cfg.Stub.JWTSecret)
	v.SetDefault("stub.token_ttl", cfg.Stub.TokenTTL)
	v.SetDefault("stub.admin_email", cfg.Stub.AdminEmail)
	v.SetDefault("stub.admin_password", cfg.Stub.AdminPassword)
}

// loadConfigFile attempts to load the configuration file.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	return l.v.ReadInConfig()
}
