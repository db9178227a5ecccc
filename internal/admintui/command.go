package admintui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fitmate/admin-console/internal/api"
	"github.com/fitmate/admin-console/internal/config"
	"github.com/fitmate/admin-console/internal/logging"
)

// Execute runs the console command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	var (
		configFile   string
		serverURL    string
		token        string
		email        string
		theme        string
		pollInterval time.Duration
		dwellDelay   time.Duration
		logFile      string
	)

	cmd := &cobra.Command{
		Use:           "fitmate-admin",
		Short:         "FitMate gym admin console",
		Long:          "Bubbletea-based terminal console for FitMate gym administration.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			// Flags override file and environment settings.
			if serverURL != "" {
				cfg.Server.BaseURL = serverURL
			}
			if token != "" {
				cfg.Server.Token = token
			}
			if theme != "" {
				cfg.TUI.Theme = theme
			}
			if pollInterval > 0 {
				cfg.TUI.PollInterval = pollInterval
			}
			if dwellDelay > 0 {
				cfg.TUI.DwellDelay = dwellDelay
			}

			initLogging(cfg, logFile)

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("fitmate-admin needs an interactive terminal")
			}

			if cfg.Server.Token == "" {
				sessionToken, err := promptLogin(cmd.Context(), cfg, email)
				if err != nil {
					return err
				}
				cfg.Server.Token = sessionToken
			}

			return Run(Config{
				ServerURL:      cfg.Server.BaseURL,
				Token:          cfg.Server.Token,
				Theme:          cfg.TUI.Theme,
				PollInterval:   cfg.TUI.PollInterval,
				DwellDelay:     cfg.TUI.DwellDelay,
				RequestTimeout: cfg.Server.Timeout,
			})
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().StringVar(&serverURL, "server", "", "backend base URL")
	cmd.Flags().StringVar(&token, "token", "", "session token (skips the login prompt)")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&theme, "theme", "", "theme: default|high-contrast")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "dashboard poll interval")
	cmd.Flags().DurationVar(&dwellDelay, "dwell-delay", 0, "dwell before an on-screen message counts as seen")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file path")
	return cmd
}

// initLogging sends logs to a file when one is configured. The TUI owns
// the terminal, so without a file logs are dropped.
func initLogging(cfg *config.Config, logFile string) {
	if logFile == "" {
		logFile = cfg.Logging.File
	}

	var output io.Writer = io.Discard
	if logFile != "" {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			output = f
		}
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "json",
		Output: output,
	})
}

func promptLogin(ctx context.Context, cfg *config.Config, email string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", errors.New("login email is required")
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	client, err := api.New(api.Config{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Server.Timeout,
	})
	if err != nil {
		return "", err
	}
	token, err := client.Login(ctx, email, string(password))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}
