// Package tasks orchestrates catalog synchronization between IGDB and local storage with progress reporting.
//
// # Core Operations
//
// [CatalogEngine] implements the catalog sync:
//
//  1. [CatalogEngine.RefreshPlatforms] : merge every IGDB platform into storage
//     - Keeps the local Active flag of known platforms, new platforms start inactive
//     - Never deletes platforms
//
//  2. [CatalogEngine.RefreshGames] : rebuild games for the active platforms
//     - Erases game_platform, then game
//     - Walks the active platforms in id order and pages through their games
//     - Reports "(platform i/N) <name>: handled <count> games" after every page
//
//  3. [CatalogEngine.SetActivePlatforms], [CatalogEngine.Platforms], [CatalogEngine.Stats]
//
// Each refresh is a single storage transaction. A failure of any kind rolls it back and is
// returned unchanged, so an IGDB auth failure still matches [shared.ErrAuthFailed].
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters and a human-readable message.
// Updates use select with default to prevent blocking; a nil channel disables reporting.
package tasks
