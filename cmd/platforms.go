package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/gameretriever/internal/formatter"
	"github.com/desertthunder/gameretriever/internal/models"
	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
	"github.com/desertthunder/gameretriever/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlatformsUpdate retrieves every platform from IGDB.
func (r *Runner) PlatformsUpdate(ctx context.Context, cmd *cli.Command) error {
	count, err := r.updatePlatforms(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Saved %d platforms\n", count)
}

func (r *Runner) updatePlatforms(ctx context.Context) (int, error) {
	var count int
	err := r.withReauth(ctx, func(ctx context.Context, engine *tasks.CatalogEngine) error {
		return r.track(ctx, "Updating platforms", func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
			var err error
			count, err = engine.RefreshPlatforms(ctx, progress)
			return err
		})
	})
	return count, err
}

// PlatformsList prints the saved platforms.
func (r *Runner) PlatformsList(ctx context.Context, cmd *cli.Command) error {
	platforms, err := r.engine.Platforms(ctx, cmd.Bool("active-only"))
	if err != nil {
		return err
	}

	if cmd.Bool("csv") {
		data, err := formatter.PlatformsToCSV(platforms)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	if len(platforms) == 0 {
		return r.writePlain("No platforms saved. Run 'gameretriever platforms update' first.\n")
	}
	return r.writeBytes(formatter.PlatformsToText(platforms))
}

// PlatformsManage replaces the active platforms with --ids, or with the picker's selection.
func (r *Runner) PlatformsManage(ctx context.Context, cmd *cli.Command) error {
	if err := r.managePlatforms(ctx, cmd.String("ids")); err != nil {
		return err
	}

	active, err := r.engine.Platforms(ctx, true)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %d active platforms: %s\n", len(active), formatter.ShortNames(active))
}

func (r *Runner) managePlatforms(ctx context.Context, rawIDs string) error {
	var ids []int64
	switch {
	case rawIDs != "":
		parsed, err := parseIDs(rawIDs)
		if err != nil {
			return err
		}
		ids = parsed
	case r.interactive:
		platforms, err := r.engine.Platforms(ctx, false)
		if err != nil {
			return err
		}
		if ids, err = ui.PickPlatforms(ctx, platforms); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: --ids is required without a terminal", shared.ErrMissingArgument)
	}

	return r.engine.SetActivePlatforms(ctx, ids)
}

// parseIDs parses a comma-separated list of platform ids.
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid platform id %q", shared.ErrInvalidArgument, field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// activeSummary renders the active platforms for log lines.
func activeSummary(platforms []models.Platform) string {
	if len(platforms) == 0 {
		return "none"
	}
	return formatter.ShortNames(platforms)
}
