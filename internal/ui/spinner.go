package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
)

// Work is a long-running operation reporting through progress.
//
// It must not close progress; [RunWithSpinner] does once Work returns.
type Work func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error

// SpinnerModel displays a spinner with the latest progress message until its work completes.
type SpinnerModel struct {
	title    string
	spinner  spinner.Model
	progress <-chan tasks.ProgressUpdate
	wait     func() error
	current  tasks.ProgressUpdate
	finished bool
	canceled bool
	err      error
}

// NewSpinnerModel creates a [SpinnerModel] reading progress until it is closed, then collecting
// the work's result with wait.
func NewSpinnerModel(title string, progress <-chan tasks.ProgressUpdate, wait func() error) *SpinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.cursor))
	return &SpinnerModel{title: title, spinner: s, progress: progress, wait: wait}
}

func (m *SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil
	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.current = msg.progress()
			return m, m.waitForProgress()
		case MsgWorkDone:
			m.finished = true
			m.err = msg.err()
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *SpinnerModel) View() string {
	var b strings.Builder
	switch {
	case m.finished && m.err == nil:
		b.WriteString(styles.ok.Render("✓ " + m.title))
	case m.finished:
		b.WriteString(styles.err.Render("✗ " + m.title))
	case m.canceled:
		b.WriteString(styles.warn.Render("⊘ " + m.title))
	default:
		b.WriteString(m.spinner.View() + " " + m.title)
	}
	if m.current.Message != "" {
		b.WriteString(styles.help.Render(" " + m.current.Message))
	}
	b.WriteString("\n")
	return b.String()
}

// Finished reports whether the work returned while the program was running.
func (m *SpinnerModel) Finished() bool { return m.finished }

// Err returns the work's error once [SpinnerModel.Finished].
func (m *SpinnerModel) Err() error { return m.err }

// waitForProgress blocks on the next update; a closed channel means the work returned.
func (m *SpinnerModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progress
		if !ok {
			return workDoneMsg(m.wait())
		}
		return progressUpdateMsg(update)
	}
}

// RunWithSpinner runs work on its own goroutine while a spinner shows its progress.
//
// The program stops as soon as work returns, whether it succeeded or failed, and the work's error is returned.
// Interrupting the program cancels the work's context and yields [shared.ErrCanceled].
func RunWithSpinner(ctx context.Context, title string, work Work, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan tasks.ProgressUpdate, 64)
	result := &workResult{done: make(chan struct{})}
	go func() {
		result.err = work(ctx, progress)
		close(result.done)
		close(progress)
	}()

	model := NewSpinnerModel(title, progress, result.wait)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, runErr := tea.NewProgram(model, opts...).Run()

	if m, ok := final.(*SpinnerModel); ok && m.Finished() {
		return m.Err()
	}

	// The program ended before the work: stop the work and wait for it.
	cancel()
	err := result.wait()

	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		return err
	case runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled):
		return fmt.Errorf("%w: %v", shared.ErrIO, runErr)
	default:
		return shared.ErrCanceled
	}
}

// workResult holds the error of a finished [Work]; it can be waited on by several readers.
type workResult struct {
	err  error
	done chan struct{}
}

func (r *workResult) wait() error {
	<-r.done
	return r.err
}
