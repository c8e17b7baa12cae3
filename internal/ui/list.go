package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/gameretriever/internal/converter"
	"github.com/desertthunder/gameretriever/internal/shared"
)

var (
	_ list.Item = converterItem{}
)

// converterItem wraps [converter.Definition] to implement [list.Item].
type converterItem struct {
	definition converter.Definition
}

func (i converterItem) FilterValue() string { return i.definition.Name }
func (i converterItem) Title() string       { return i.definition.Name }
func (i converterItem) Description() string {
	return fmt.Sprintf("%s → %s • %d handlers",
		filepath.Base(i.definition.InputFile), filepath.Base(i.definition.OutputFile), len(i.definition.Handlers))
}

// ChooserModel selects one converter definition from a filterable list.
type ChooserModel struct {
	list     list.Model
	keys     keyMap
	chosen   string
	canceled bool
}

// NewChooserModel creates a [ChooserModel] listing definitions.
func NewChooserModel(definitions []converter.Definition) *ChooserModel {
	items := make([]list.Item, len(definitions))
	for i, d := range definitions {
		items[i] = converterItem{definition: d}
	}

	keys := newKeyMap()
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Converters"
	l.Styles.Title = styles.title
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.enter} }
	return &ChooserModel{list: l, keys: keys}
}

func (m *ChooserModel) Init() tea.Cmd { return nil }

func (m *ChooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case msg.String() == "ctrl+c", msg.String() == "q", msg.String() == "esc":
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.list.SelectedItem().(converterItem); ok {
				m.chosen = item.definition.Name
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ChooserModel) View() string {
	if m.chosen != "" || m.canceled {
		return ""
	}
	return m.list.View()
}

// Chosen returns the selected converter name, empty when none was chosen.
func (m *ChooserModel) Chosen() string { return m.chosen }

// ChooseConverter lets the user pick one of definitions and returns its name.
//
// It returns [shared.ErrCanceled] when the chooser is dismissed.
func ChooseConverter(ctx context.Context, definitions []converter.Definition, opts ...tea.ProgramOption) (string, error) {
	if len(definitions) == 0 {
		return "", fmt.Errorf("%w: no converter definitions found", shared.ErrNotFound)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewChooserModel(definitions), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCanceled, err)
	}

	m, ok := final.(*ChooserModel)
	if !ok || m.Chosen() == "" {
		return "", shared.ErrCanceled
	}
	return m.Chosen(), nil
}
