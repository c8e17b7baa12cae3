package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/gameretriever/internal/formatter"
	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GamesUpdate replaces the saved games with those of the active platforms.
func (r *Runner) GamesUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.updateGames(ctx); err != nil {
		return err
	}

	stats, err := r.engine.Stats(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Saved %d games for %d platforms\n", stats.GameCount, stats.ActivePlatformCount)
}

func (r *Runner) updateGames(ctx context.Context) error {
	active, err := r.engine.Platforms(ctx, true)
	if err != nil {
		return err
	}
	r.logger.Info("updating games", "platforms", activeSummary(active))

	if len(active) == 0 {
		return r.track(ctx, "Updating games", func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
			return r.engine.RefreshGames(ctx, progress)
		})
	}

	return r.withReauth(ctx, func(ctx context.Context, engine *tasks.CatalogEngine) error {
		return r.track(ctx, "Updating games", func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
			return engine.RefreshGames(ctx, progress)
		})
	})
}

// GamesStats prints what the changelog will contain.
func (r *Runner) GamesStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.engine.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("markdown") {
		return r.writeBytes(formatter.StatsToMarkdown(stats))
	}
	return r.writeBytes(formatter.StatsToText(stats))
}

// GamesOpen opens a saved game's IGDB page.
func (r *Runner) GamesOpen(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	if raw == "" {
		return fmt.Errorf("%w: game id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid game id %q", shared.ErrInvalidArgument, raw)
	}

	game, err := r.catalog.FindGame(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return fmt.Errorf("%w: game %d", shared.ErrNotFound, id)
	}
	if game.InfoLink == "" {
		return fmt.Errorf("%w: game %d has no info link", shared.ErrNotFound, id)
	}

	r.logger.Info("opening game page", "game", game.Name, "url", game.InfoLink)
	if err := r.openURL(game.InfoLink); err != nil {
		return err
	}
	return r.writePlain("%s: %s\n", game.Name, game.InfoLink)
}
