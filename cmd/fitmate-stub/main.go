// Package main is the entry point for the FitMate stub backend, an
// in-process stand-in used for local development of the admin console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fitmate/admin-console/internal/config"
	"github.com/fitmate/admin-console/internal/logging"
	"github.com/fitmate/admin-console/internal/stubserver"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var _ = []string{commit, date}

func main() {
	// A .env in the working directory is convenient for local secrets;
	// absence is not an error.
	_ = godotenv.Load()

	addr := flag.String("addr", "", "listen address override")
	dbPath := flag.String("db", "", "sqlite database path override")
	configFile := flag.String("config", "", "config file (default is $HOME/.config/fitmate/config.yaml)")
	logLevel := flag.String("log-level", "", "override logging level (debug, info, warn, error)")
	seed := flag.Bool("seed", true, "seed demo data into an empty database")
	flag.Parse()

	loader := config.NewLoader()
	if *configFile != "" {
		loader.SetConfigFile(*configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Stub.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Stub.DatabasePath = *dbPath
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger := logging.Component("fitmate-stub")

	logger.Info().
		Str("version", version).
		Str("addr", cfg.Stub.Addr).
		Str("database", cfg.Stub.DatabasePath).
		Msg("stub backend starting")

	store, err := stubserver.OpenStore(cfg.Stub.DatabasePath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open store")
		os.Exit(1)
	}
	defer store.Close()

	srv, err := stubserver.New(cfg.Stub, store)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize stub server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := srv.Seed(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to seed demo data")
			os.Exit(1)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("stub backend exited with error")
			os.Exit(1)
		}
	}
}
