// Package ui implements the interactive terminal pieces of gameretriever using bubbletea's Elm architecture.
//
//   - [RunWithSpinner] : runs a long operation on its own goroutine while a spinner shows its latest progress message
//   - [PickPlatforms] : multi-select of the active platforms
//   - [ChooseConverter] : single selection among converter definitions
//
// Each model implements bubbletea's Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the engines, so reporting never blocks the work.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
