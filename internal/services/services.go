package services

import "context"

// Platform is a platform as returned by the IGDB platforms endpoint.
type Platform struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// Game is a game as returned by the IGDB games endpoint.
type Game struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// CatalogSource is the remote side of a catalog refresh.
//
// Both methods page through the full result set, calling onBatch once per non-empty page.
type CatalogSource interface {
	Platforms(ctx context.Context, onBatch func([]Platform) error) error
	GamesByPlatform(ctx context.Context, platformID int64, onBatch func([]Game) error) error
}

// Poster sends one Apicalypse query to an endpoint and decodes the JSON response into out.
type Poster interface {
	Post(ctx context.Context, endpoint, query string, out any) error
}

// RemoteCatalog is a [CatalogSource] that can also check whether its credentials are accepted.
type RemoteCatalog interface {
	CatalogSource
	Ping(ctx context.Context) (bool, error)
}
