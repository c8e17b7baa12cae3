package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, initializes the database, runs migrations
// and creates the converters directory.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := os.MkdirAll(config.Output.ConvertersDir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create converters directory: %v", shared.ErrIO, err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	r.writePlain("Converters directory: %s\n", config.Output.ConvertersDir)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.twitch in %s (or TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET)\n", configPath)
	r.writePlain("2. Run 'gameretriever auth login'\n")
	r.writePlain("3. Run 'gameretriever wizard'\n")
	return nil
}
