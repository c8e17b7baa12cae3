package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/gameretriever/internal/models"
	"github.com/desertthunder/gameretriever/internal/shared"
)

const defaultPickerHeight = 15

// PickerModel is a multi-select checkbox list of platforms.
//
// Platforms start selected when they are active.
type PickerModel struct {
	platforms []models.Platform
	selected  map[int64]bool
	cursor    int
	offset    int
	height    int
	keys      keyMap
	help      help.Model
	confirmed bool
	canceled  bool
}

// NewPickerModel creates a [PickerModel] over platforms.
func NewPickerModel(platforms []models.Platform) *PickerModel {
	selected := make(map[int64]bool, len(platforms))
	for _, p := range platforms {
		if p.Active {
			selected[p.ID] = true
		}
	}
	return &PickerModel{
		platforms: platforms,
		selected:  selected,
		height:    defaultPickerHeight,
		keys:      newKeyMap(),
		help:      help.New(),
	}
}

func (m *PickerModel) Init() tea.Cmd { return nil }

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, status and help lines
		m.height = max(msg.Height-6, 3)
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m *PickerModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.canceled = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.platforms)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		if len(m.platforms) > 0 {
			id := m.platforms[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}
	case key.Matches(msg, m.keys.all):
		for _, p := range m.platforms {
			m.selected[p.ID] = true
		}
	case key.Matches(msg, m.keys.none):
		clear(m.selected)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *PickerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *PickerModel) View() string {
	if m.confirmed || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Select active platforms"))
	b.WriteString("\n")

	if len(m.platforms) == 0 {
		b.WriteString(styles.warn.Render("No platforms saved; run `platforms update` first."))
		b.WriteString("\n")
	}

	end := min(m.offset+m.height, len(m.platforms))
	for i := m.offset; i < end; i++ {
		p := m.platforms[i]
		mark := " "
		if m.selected[p.ID] {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %d. %s", mark, p.ID, p.Name)
		if p.ShortName != "" {
			line += fmt.Sprintf(" (%s)", p.ShortName)
		}
		if i == m.cursor {
			b.WriteString(styles.cursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render(fmt.Sprintf("%d of %d selected", len(m.SelectedIDs()), len(m.platforms))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// SelectedIDs returns the selected platform ids in list order.
func (m *PickerModel) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for _, p := range m.platforms {
		if m.selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Confirmed reports whether the selection was accepted.
func (m *PickerModel) Confirmed() bool { return m.confirmed }

// PickPlatforms lets the user choose the active platforms among platforms.
//
// It returns [shared.ErrCanceled] when the picker is dismissed without confirming.
func PickPlatforms(ctx context.Context, platforms []models.Platform, opts ...tea.ProgramOption) ([]int64, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewPickerModel(platforms), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCanceled, err)
	}

	m, ok := final.(*PickerModel)
	if !ok || !m.Confirmed() {
		return nil, shared.ErrCanceled
	}
	return m.SelectedIDs(), nil
}
