package repositories

import (
	"context"

	"github.com/desertthunder/gameretriever/internal/shared"
)

// GamePlatformRepository persists the (game, platform) relation.
type GamePlatformRepository struct {
	db DBTX
}

// NewGamePlatformRepository creates a new GamePlatformRepository with the given database handle
func NewGamePlatformRepository(db DBTX) *GamePlatformRepository {
	return &GamePlatformRepository{db: db}
}

// Link inserts a relation with a generated id. A pair that already exists is left untouched.
func (r *GamePlatformRepository) Link(ctx context.Context, gameID, platformID int64) error {
	query := `
		INSERT INTO game_platform (id, game_id, platform_id)
		VALUES (?, ?, ?)
		ON CONFLICT(game_id, platform_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, shared.GenerateID(), gameID, platformID); err != nil {
		return storageErr("link game to platform", err)
	}
	return nil
}

// DeleteAll removes every relation.
func (r *GamePlatformRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM game_platform`); err != nil {
		return storageErr("erase game platforms", err)
	}
	return nil
}

// Count returns the number of stored relations.
func (r *GamePlatformRepository) Count(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM game_platform`)
	if err != nil {
		return 0, storageErr("count game platforms", err)
	}
	return n, nil
}
