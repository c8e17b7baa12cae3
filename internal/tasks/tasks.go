// package tasks implements the catalog synchronization between IGDB and local storage.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/gameretriever/internal/models"
	"github.com/desertthunder/gameretriever/internal/services"
	"github.com/desertthunder/gameretriever/internal/shared"
)

// CatalogEngine synchronizes the local catalog with a remote [services.CatalogSource].
//
// An engine is bound to one source; after re-authentication build a new engine.
type CatalogEngine struct {
	source services.CatalogSource
	store  models.CatalogStore
	logger *log.Logger
}

// NewCatalogEngine creates a CatalogEngine. A nil logger discards output.
func NewCatalogEngine(source services.CatalogSource, store models.CatalogStore, logger *log.Logger) *CatalogEngine {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &CatalogEngine{source: source, store: store, logger: logger}
}

// RefreshPlatforms merges every remote platform into storage and returns how many were handled.
//
// Name and short name are overwritten; the local Active flag survives, defaulting to false for new platforms.
func (e *CatalogEngine) RefreshPlatforms(ctx context.Context, progress chan<- ProgressUpdate) (int, error) {
	handled := 0

	err := e.store.Atomic(ctx, func(store models.CatalogStore) error {
		return e.source.Platforms(ctx, func(batch []services.Platform) error {
			for _, remote := range batch {
				existing, err := store.FindPlatform(ctx, remote.ID)
				if err != nil {
					return err
				}

				p := models.Platform{ID: remote.ID, Name: remote.Name, ShortName: remote.Abbreviation}
				if existing != nil {
					p.Active = existing.Active
				}

				if err := store.SavePlatform(ctx, p); err != nil {
					return err
				}
				handled++
			}

			e.logger.Debug("platform batch saved", "batch", len(batch), "handled", handled)
			SendProgress(progress, platformsHandledUpdate(handled))
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("platforms refreshed", "count", handled)
	return handled, nil
}

// RefreshGames rebuilds the game and game_platform tables from the games of every active platform.
//
// Storage is erased first, so with no active platforms the tables end up empty and no remote
// call is made. Any failure rolls the whole refresh back.
func (e *CatalogEngine) RefreshGames(ctx context.Context, progress chan<- ProgressUpdate) error {
	return e.store.Atomic(ctx, func(store models.CatalogStore) error {
		SendProgress(progress, erasingGamesUpdate())
		if err := store.EraseGamePlatforms(ctx); err != nil {
			return err
		}
		if err := store.EraseGames(ctx); err != nil {
			return err
		}

		platforms, err := store.ListPlatforms(ctx, true)
		if err != nil {
			return err
		}
		if len(platforms) == 0 {
			e.logger.Warn("no active platforms, nothing to refresh")
			SendProgress(progress, noActivePlatformsUpdate())
			return nil
		}

		for i, platform := range platforms {
			if err := e.refreshPlatformGames(ctx, store, platform, i+1, len(platforms), progress); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *CatalogEngine) refreshPlatformGames(ctx context.Context, store models.CatalogStore, platform models.Platform, step, total int, progress chan<- ProgressUpdate) error {
	handled := 0

	err := e.source.GamesByPlatform(ctx, platform.ID, func(batch []services.Game) error {
		for _, remote := range batch {
			if err := store.SaveGame(ctx, models.Game{ID: remote.ID, Name: remote.Name, InfoLink: remote.URL}); err != nil {
				return err
			}
			if err := store.LinkGame(ctx, remote.ID, platform.ID); err != nil {
				return err
			}
			handled++
		}

		SendProgress(progress, gamesHandledUpdate(step, total, platform.Name, handled))
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("platform games refreshed", "platform", platform.Name, "games", handled)
	return nil
}

// SetActivePlatforms makes exactly ids the active platforms.
func (e *CatalogEngine) SetActivePlatforms(ctx context.Context, ids []int64) error {
	if err := e.store.SetActivePlatforms(ctx, ids); err != nil {
		return fmt.Errorf("failed to set active platforms: %w", err)
	}
	e.logger.Debug("active platforms updated", "count", len(ids))
	return nil
}

// Platforms returns the stored platforms in id order.
func (e *CatalogEngine) Platforms(ctx context.Context, activeOnly bool) ([]models.Platform, error) {
	return e.store.ListPlatforms(ctx, activeOnly)
}

// Stats summarizes the stored catalog.
func (e *CatalogEngine) Stats(ctx context.Context) (*models.PlatformStats, error) {
	return e.store.Stats(ctx)
}
