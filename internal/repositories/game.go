package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/gameretriever/internal/models"
)

// GameRepository persists [models.Game] rows.
type GameRepository struct {
	db DBTX
}

// NewGameRepository creates a new GameRepository with the given database handle
func NewGameRepository(db DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// Get retrieves a game by id. A missing row yields nil without error.
func (r *GameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	var (
		g    models.Game
		link sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, name, info_link FROM game WHERE id = ?`, id).Scan(&g.ID, &g.Name, &link)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan game", err)
	}

	g.InfoLink = link.String
	return &g, nil
}

// Upsert inserts the game or refreshes the name and link of the existing row.
func (r *GameRepository) Upsert(ctx context.Context, g models.Game) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO game (id, name, info_link)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			info_link = excluded.info_link
	`

	if _, err := r.db.ExecContext(ctx, query, g.ID, g.Name, nullString(g.InfoLink)); err != nil {
		return storageErr("upsert game", err)
	}
	return nil
}

// DeleteAll removes every game. Links must be erased first.
func (r *GameRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM game`); err != nil {
		return storageErr("erase games", err)
	}
	return nil
}

// Count returns the number of stored games.
func (r *GameRepository) Count(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM game`)
	if err != nil {
		return 0, storageErr("count games", err)
	}
	return n, nil
}
