// Package repositories implements SQLite persistence for the game catalog.
//
// Key Implementations:
//   - [PlatformRepository] : platform upserts and active-set replacement
//   - [GameRepository] : game upserts and bulk erase
//   - [GamePlatformRepository] : (game, platform) links with generated UUID ids
//   - [Catalog] : composes the three behind [models.CatalogStore] and scopes them to a transaction
//
// Every repository accepts a [DBTX], so the same code runs against a *sql.DB or a *sql.Tx.
package repositories
