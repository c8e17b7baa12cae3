package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/gameretriever/internal/models"
	"github.com/desertthunder/gameretriever/internal/shared"
)

func TestCatalogErrors(t *testing.T) {
	ctx := context.Background()

	closed := func(t *testing.T) *Catalog {
		db := setupTestDB(t)
		db.Close()
		return NewCatalog(db)
	}

	t.Run("closed database", func(t *testing.T) {
		tests := []struct {
			name string
			op   func(c *Catalog) error
		}{
			{"FindPlatform", func(c *Catalog) error { _, err := c.FindPlatform(ctx, 6); return err }},
			{"SavePlatform", func(c *Catalog) error { return c.SavePlatform(ctx, models.Platform{ID: 6, Name: "PC"}) }},
			{"ListPlatforms", func(c *Catalog) error { _, err := c.ListPlatforms(ctx, false); return err }},
			{"SetActivePlatforms", func(c *Catalog) error { return c.SetActivePlatforms(ctx, []int64{6}) }},
			{"EraseGamePlatforms", func(c *Catalog) error { return c.EraseGamePlatforms(ctx) }},
			{"EraseGames", func(c *Catalog) error { return c.EraseGames(ctx) }},
			{"SaveGame", func(c *Catalog) error { return c.SaveGame(ctx, models.Game{ID: 1942, Name: "The Witcher 3"}) }},
			{"FindGame", func(c *Catalog) error { _, err := c.FindGame(ctx, 1942); return err }},
			{"LinkGame", func(c *Catalog) error { return c.LinkGame(ctx, 1942, 6) }},
			{"Stats", func(c *Catalog) error { _, err := c.Stats(ctx); return err }},
			{"Atomic", func(c *Catalog) error {
				return c.Atomic(ctx, func(models.CatalogStore) error { return nil })
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.op(closed(t))
				if !errors.Is(err, shared.ErrStorage) {
					t.Errorf("expected ErrStorage, got %v", err)
				}
			})
		}
	})

	t.Run("SaveGame validation", func(t *testing.T) {
		catalog := NewCatalog(setupTestDB(t))

		err := catalog.SaveGame(ctx, models.Game{ID: 1942})
		if err == nil {
			t.Fatal("expected validation error for empty name")
		}
		if errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected validation error, got storage error %v", err)
		}
	})

	t.Run("Atomic propagates fn error unmodified", func(t *testing.T) {
		catalog := NewCatalog(setupTestDB(t))
		boom := errors.New("boom")

		err := catalog.Atomic(ctx, func(models.CatalogStore) error { return boom })
		if err != boom {
			t.Errorf("expected boom, got %v", err)
		}
	})
}
