package ui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/gameretriever/internal/converter"
	"github.com/desertthunder/gameretriever/internal/models"
	"github.com/desertthunder/gameretriever/internal/tasks"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testPlatforms() []models.Platform {
	return []models.Platform{
		{ID: 6, Name: "PC (Microsoft Windows)", ShortName: "PC", Active: true},
		{ID: 48, Name: "PlayStation 4", ShortName: "PS4"},
		{ID: 130, Name: "Nintendo Switch", ShortName: "Switch"},
	}
}

func TestPickerModel(t *testing.T) {
	t.Run("active platforms start selected", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		if got := m.SelectedIDs(); !slices.Equal(got, []int64{6}) {
			t.Errorf("expected [6], got %v", got)
		}
	})

	t.Run("toggle selects the platform under the cursor", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		m.Update(runes("j"))
		m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		m.Update(runes("k"))
		m.Update(runes("x"))

		if got := m.SelectedIDs(); !slices.Equal(got, []int64{48}) {
			t.Errorf("expected [48], got %v", got)
		}
	})

	t.Run("cursor stays in bounds", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		m.Update(runes("k"))
		if m.cursor != 0 {
			t.Errorf("expected cursor 0, got %d", m.cursor)
		}
		for range 5 {
			m.Update(runes("j"))
		}
		if m.cursor != 2 {
			t.Errorf("expected cursor 2, got %d", m.cursor)
		}
	})

	t.Run("all and none", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		m.Update(runes("a"))
		if got := len(m.SelectedIDs()); got != 3 {
			t.Errorf("expected 3 selected, got %d", got)
		}
		m.Update(runes("n"))
		if got := len(m.SelectedIDs()); got != 0 {
			t.Errorf("expected none selected, got %d", got)
		}
	})

	t.Run("enter confirms", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !m.Confirmed() {
			t.Error("expected picker to be confirmed")
		}
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("quit cancels", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		m.Update(runes("q"))
		if m.Confirmed() {
			t.Error("expected picker not to be confirmed")
		}
		if !m.canceled {
			t.Error("expected picker to be canceled")
		}
	})

	t.Run("view marks selection and cursor", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		view := m.View()
		if !strings.Contains(view, "[x] 6. PC (Microsoft Windows) (PC)") {
			t.Errorf("expected selected PC line, got:\n%s", view)
		}
		if !strings.Contains(view, "[ ] 48. PlayStation 4 (PS4)") {
			t.Errorf("expected unselected PS4 line, got:\n%s", view)
		}
		if !strings.Contains(view, "1 of 3 selected") {
			t.Errorf("expected selection count, got:\n%s", view)
		}
	})

	t.Run("window scrolls with cursor", func(t *testing.T) {
		m := NewPickerModel(testPlatforms())
		m.height = 1
		m.Update(runes("j"))
		m.Update(runes("j"))
		if m.offset != 2 {
			t.Errorf("expected offset 2, got %d", m.offset)
		}
		view := m.View()
		if strings.Contains(view, "PlayStation 4") {
			t.Errorf("expected PS4 to be scrolled out, got:\n%s", view)
		}
	})
}

func TestSpinnerModel(t *testing.T) {
	t.Run("progress updates replace the message", func(t *testing.T) {
		progress := make(chan tasks.ProgressUpdate, 1)
		m := NewSpinnerModel("Updating games", progress, func() error { return nil })

		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Message: "(platform 1/2) PC: handled 500 games"}))
		if !strings.Contains(m.View(), "(platform 1/2) PC: handled 500 games") {
			t.Errorf("expected progress message in view, got %q", m.View())
		}
	})

	t.Run("closed channel finishes with the work's error", func(t *testing.T) {
		progress := make(chan tasks.ProgressUpdate)
		close(progress)
		boom := errors.New("boom")
		m := NewSpinnerModel("Updating games", progress, func() error { return boom })

		msg := m.waitForProgress()()
		_, cmd := m.Update(msg)

		if !m.Finished() {
			t.Fatal("expected model to be finished")
		}
		if !errors.Is(m.Err(), boom) {
			t.Errorf("expected boom, got %v", m.Err())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if !strings.Contains(m.View(), "✗ Updating games") {
			t.Errorf("expected failure mark, got %q", m.View())
		}
	})

	t.Run("success mark", func(t *testing.T) {
		m := NewSpinnerModel("Updating platforms", nil, nil)
		m.Update(workDoneMsg(nil))
		if !strings.Contains(m.View(), "✓ Updating platforms") {
			t.Errorf("expected success mark, got %q", m.View())
		}
	})

	t.Run("ctrl+c cancels", func(t *testing.T) {
		m := NewSpinnerModel("Updating platforms", nil, nil)
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if m.Finished() {
			t.Error("expected model not to be finished")
		}
		if !m.canceled {
			t.Error("expected model to be canceled")
		}
	})
}

func TestChooserModel(t *testing.T) {
	defs := []converter.Definition{
		{Name: "csv", InputFile: "output/changelog.sql", OutputFile: "output/games.csv", Handlers: make([]converter.Handler, 2)},
		{Name: "json", InputFile: "output/changelog.sql", OutputFile: "output/games.json"},
	}

	t.Run("enter chooses the selected converter", func(t *testing.T) {
		m := NewChooserModel(defs)
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if got := m.Chosen(); got != "csv" {
			t.Errorf("expected csv, got %q", got)
		}
	})

	t.Run("esc cancels", func(t *testing.T) {
		m := NewChooserModel(defs)
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.Chosen() != "" {
			t.Errorf("expected no choice, got %q", m.Chosen())
		}
		if !m.canceled {
			t.Error("expected chooser to be canceled")
		}
	})

	t.Run("item description", func(t *testing.T) {
		item := converterItem{definition: defs[0]}
		if got := item.Description(); got != "changelog.sql → games.csv • 2 handlers" {
			t.Errorf("unexpected description %q", got)
		}
	})
}
