package models

import (
	"context"
	"fmt"
	"strings"
)

// Platform is a gaming platform as stored locally.
type Platform struct {
	ID        int64
	Name      string
	ShortName string // empty when IGDB has no abbreviation
	Active    bool
}

// Validate checks the fields required by the platform table.
func (p Platform) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("platform id must be positive, got %d", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("platform %d has no name", p.ID)
	}
	return nil
}

// DisplayShortName returns the abbreviation, falling back to the full name.
func (p Platform) DisplayShortName() string {
	if p.ShortName != "" {
		return p.ShortName
	}
	return p.Name
}

// Game is a game retrieved for an active platform.
type Game struct {
	ID       int64
	Name     string
	InfoLink string
}

// Validate checks the fields required by the game table.
func (g Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id must be positive, got %d", g.ID)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("game %d has no name", g.ID)
	}
	return nil
}

// GamePlatform links a game to a platform. ID is a locally generated UUID.
type GamePlatform struct {
	ID         string
	GameID     int64
	PlatformID int64
}

// PlatformGameCount is the number of games linked to one active platform.
type PlatformGameCount struct {
	ID        int64
	Name      string
	GameCount int64
}

// PlatformStats summarizes the stored catalog.
type PlatformStats struct {
	ActivePlatformCount int64
	GameCount           int64
	GamePlatformCount   int64
	Platforms           []PlatformGameCount
}

// CatalogStore is the storage port of the catalog sync engine.
//
// Atomic runs fn against a store bound to a single transaction; fn's error rolls it back.
// Calling Atomic on a store that is already transactional runs fn in the same transaction.
type CatalogStore interface {
	Atomic(ctx context.Context, fn func(CatalogStore) error) error

	FindPlatform(ctx context.Context, id int64) (*Platform, error) // nil, nil when absent
	SavePlatform(ctx context.Context, p Platform) error
	ListPlatforms(ctx context.Context, activeOnly bool) ([]Platform, error)
	SetActivePlatforms(ctx context.Context, ids []int64) error

	EraseGamePlatforms(ctx context.Context) error
	EraseGames(ctx context.Context) error
	SaveGame(ctx context.Context, g Game) error
	FindGame(ctx context.Context, id int64) (*Game, error) // nil, nil when absent
	LinkGame(ctx context.Context, gameID, platformID int64) error

	Stats(ctx context.Context) (*PlatformStats, error)
}
