// Package models defines the catalog entities and the persistence port used by the sync engine.
//
// The catalog mirrors a subset of IGDB:
//   - [Platform] : a gaming platform; Active is local-only state chosen by the user
//   - [Game] : a game retrieved for at least one active platform
//   - [GamePlatform] : one row per (game, platform) pair seen during a refresh
//
// [PlatformStats] is derived by query and never persisted.
//
// [CatalogStore] is implemented by the repositories package and consumed by the tasks package.
package models
