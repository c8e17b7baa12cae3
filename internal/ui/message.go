package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/gameretriever/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgWorkDone
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// workDoneMsg is the constructor for [MsgWorkDone]
func workDoneMsg(err error) Msg {
	return Msg{kind: MsgWorkDone, data: err}
}

func (m Msg) progress() tasks.ProgressUpdate {
	u, _ := m.data.(tasks.ProgressUpdate)
	return u
}

func (m Msg) err() error {
	err, _ := m.data.(error)
	return err
}
