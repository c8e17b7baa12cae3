package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("GAMERETRIEVER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		logger.Debug("config file not found, using defaults", "path", configPath)
		config = shared.DefaultConfig()
	case err != nil:
		logger.Fatal("invalid configuration", "path", configPath, "error", err)
	}
	config.ApplyEnv()
	shared.SetLogLevel(logger, config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", "path", config.Database.Path, "error", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		logger.Fatal("failed to run migrations", "error", err)
	}

	fd := os.Stdout.Fd()
	runner := NewRunner(RunnerOpts{
		Config:      config,
		ConfigPath:  configPath,
		Logger:      logger,
		DB:          db,
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	})

	app := &cli.Command{
		Name:     "gameretriever",
		Usage:    "Retrieve IGDB platforms and games into a Liquibase changelog",
		Version:  "0.1.0",
		Flags:    runner.flags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	err = app.Run(ctx, os.Args)
	db.Close()

	switch {
	case err == nil:
	case errors.Is(err, shared.ErrCanceled):
		logger.Warn("canceled")
		os.Exit(1)
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrMissingCredentials):
		logger.Fatal("authentication error, run 'gameretriever auth login'", "error", err)
	default:
		logger.Fatalf("application error: %v", err)
	}
}
