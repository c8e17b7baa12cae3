package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchPlatforms Phase = iota
	EraseGames
	FetchGames
	ConvertHandlers
	GenerateChangelog
)

func (p Phase) String() string {
	switch p {
	case FetchPlatforms:
		return "fetch_platforms"
	case EraseGames:
		return "erase_games"
	case FetchGames:
		return "fetch_games"
	case ConvertHandlers:
		return "convert_handlers"
	case GenerateChangelog:
		return "generate_changelog"
	default:
		return ""
	}
}

// SendProgress sends update through progress without blocking.
// A nil or full channel drops the update.
func SendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func platformsHandledUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlatforms,
		Step:    count,
		Message: fmt.Sprintf("Handled %d platforms", count),
	}
}

func erasingGamesUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: EraseGames, Message: "Erasing saved games"}
}

func noActivePlatformsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchGames, Message: "No active platforms"}
}

func gamesHandledUpdate(step, total int, name string, handled int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGames,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("(platform %d/%d) %s: handled %d games", step, total, name, handled),
	}
}

// HandlerUpdate reports that handler step of total, named name, is being applied.
func HandlerUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ConvertHandlers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("(handler %d/%d) %s", step, total, name),
	}
}

// ChangelogUpdate reports that table is being written to the changelog.
func ChangelogUpdate(step, total int, table string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateChangelog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("(table %d/%d) %s", step, total, table),
	}
}
