package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Keep the loader away from any real user config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	require.Equal(t, 30*time.Second, cfg.TUI.PollInterval)
	require.Equal(t, 500*time.Millisecond, cfg.TUI.DwellDelay)
	require.Equal(t, "default", cfg.TUI.Theme)
	require.Equal(t, ":memory:", cfg.Stub.DatabasePath)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  base_url: https://api.fitmate.example
  timeout: 5s
tui:
  poll_interval: 45s
  theme: high-contrast
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewLoader()
	loader.SetConfigFile(path)
	cfg, err := loader.Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.fitmate.example", cfg.Server.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Server.Timeout)
	require.Equal(t, 45*time.Second, cfg.TUI.PollInterval)
	require.Equal(t, "high-contrast", cfg.TUI.Theme)
	// Untouched sections keep defaults.
	require.Equal(t, 500*time.Millisecond, cfg.TUI.DwellDelay)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FITMATE_SERVER_BASE_URL", "http://stub:9999")
	t.Setenv("FITMATE_TUI_THEME", "high-contrast")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.Equal(t, "http://stub:9999", cfg.Server.BaseURL)
	require.Equal(t, "high-contrast", cfg.TUI.Theme)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FITMATE_TUI_THEME", "neon")

	_, err := NewLoader().Load()
	require.Error(t, err)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loader.Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.BaseURL = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TUI.PollInterval = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Stub.JWTSecret = " "
	require.Error(t, cfg.Validate())
}
