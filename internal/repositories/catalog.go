package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/gameretriever/internal/models"
)

// Catalog implements [models.CatalogStore] on top of the SQLite repositories.
type Catalog struct {
	db        *sql.DB // nil when bound to a transaction
	platforms *PlatformRepository
	games     *GameRepository
	links     *GamePlatformRepository
}

// NewCatalog creates a Catalog backed by db.
func NewCatalog(db *sql.DB) *Catalog {
	c := bind(db)
	c.db = db
	return c
}

func bind(db DBTX) *Catalog {
	return &Catalog{
		platforms: NewPlatformRepository(db),
		games:     NewGameRepository(db),
		links:     NewGamePlatformRepository(db),
	}
}

// Atomic runs fn inside a transaction, committing when fn returns nil.
func (c *Catalog) Atomic(ctx context.Context, fn func(models.CatalogStore) error) error {
	return c.atomic(ctx, func(tc *Catalog) error { return fn(tc) })
}

func (c *Catalog) atomic(ctx context.Context, fn func(*Catalog) error) error {
	if c.db == nil {
		return fn(c)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(bind(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

func (c *Catalog) FindPlatform(ctx context.Context, id int64) (*models.Platform, error) {
	return c.platforms.Get(ctx, id)
}

func (c *Catalog) SavePlatform(ctx context.Context, p models.Platform) error {
	return c.platforms.Upsert(ctx, p)
}

func (c *Catalog) ListPlatforms(ctx context.Context, activeOnly bool) ([]models.Platform, error) {
	return c.platforms.List(ctx, activeOnly)
}

func (c *Catalog) SetActivePlatforms(ctx context.Context, ids []int64) error {
	return c.atomic(ctx, func(tc *Catalog) error {
		return tc.platforms.SetActive(ctx, ids)
	})
}

func (c *Catalog) EraseGamePlatforms(ctx context.Context) error {
	return c.links.DeleteAll(ctx)
}

func (c *Catalog) EraseGames(ctx context.Context) error {
	return c.games.DeleteAll(ctx)
}

func (c *Catalog) SaveGame(ctx context.Context, g models.Game) error {
	return c.games.Upsert(ctx, g)
}

func (c *Catalog) FindGame(ctx context.Context, id int64) (*models.Game, error) {
	return c.games.Get(ctx, id)
}

func (c *Catalog) LinkGame(ctx context.Context, gameID, platformID int64) error {
	return c.links.Link(ctx, gameID, platformID)
}

// Stats computes catalog counts in one read transaction.
func (c *Catalog) Stats(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats

	err := c.atomic(ctx, func(tc *Catalog) error {
		var err error
		if stats.ActivePlatformCount, err = tc.platforms.CountActive(ctx); err != nil {
			return err
		}
		if stats.GameCount, err = tc.games.Count(ctx); err != nil {
			return err
		}
		if stats.GamePlatformCount, err = tc.links.Count(ctx); err != nil {
			return err
		}
		if stats.Platforms, err = tc.platforms.GameCounts(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	return &stats, nil
}

var _ models.CatalogStore = (*Catalog)(nil)
