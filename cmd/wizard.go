package main

import (
	"context"

	"github.com/desertthunder/gameretriever/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Wizard runs the whole retrieval: platforms, active platform selection, games, changelog and an optional conversion.
//
// Without --ids or a terminal the current active platforms are kept.
func (r *Runner) Wizard(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Step 1/5: platforms")
	count, err := r.updatePlatforms(ctx)
	if err != nil {
		return err
	}
	r.writePlain("✓ Saved %d platforms\n", count)

	r.writePlainHeader("Step 2/5: active platforms")
	ids := cmd.String("ids")
	if ids != "" || r.interactive {
		if err := r.managePlatforms(ctx, ids); err != nil {
			return err
		}
	}
	active, err := r.engine.Platforms(ctx, true)
	if err != nil {
		return err
	}
	r.writePlain("✓ %d active platforms: %s\n", len(active), activeSummary(active))

	r.writePlainHeader("Step 3/5: games")
	if err := r.updateGames(ctx); err != nil {
		return err
	}
	stats, err := r.engine.Stats(ctx)
	if err != nil {
		return err
	}
	r.writeBytes(formatter.StatsToText(stats))

	r.writePlainHeader("Step 4/5: changelog")
	res, err := r.writeChangelog(ctx, r.config.Output.ChangelogFile)
	if err != nil {
		return err
	}
	r.writePlain("✓ Changelog written to %s\n", res.Path)

	r.writePlainHeader("Step 5/5: conversion")
	name, err := r.converterName(ctx, cmd.String("name"))
	if skippable(err) {
		r.logger.Info("skipping conversion", "reason", err)
		return r.writePlain("Skipped conversion\n")
	}
	if err != nil {
		return err
	}
	return r.convert(ctx, name)
}
