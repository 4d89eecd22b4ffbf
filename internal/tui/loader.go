package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user interrupts a running task.
var ErrCancelled = errors.New("cancelled")

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

type spinnerTickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

type taskDoneMsg[T any] struct {
	value T
	err   error
}

type loaderModel[T any] struct {
	label  string
	ctx    context.Context
	cancel context.CancelFunc
	taskFn func(ctx context.Context) (T, error)
	frame  int
	result T
	err    error
	done   bool
}

func (m loaderModel[T]) Init() tea.Cmd {
	return tea.Batch(m.run(), tick())
}

func (m loaderModel[T]) run() tea.Cmd {
	ctx, taskFn := m.ctx, m.taskFn
	return func() tea.Msg {
		v, err := taskFn(ctx)
		return taskDoneMsg[T]{value: v, err: err}
	}
}

func (m loaderModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg[T]:
		m.result = msg.value
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel[T]) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", spinnerStyle.Render(spinnerFrames[m.frame]), m.label)
}

// RunLoader shows a spinner labelled label while taskFn runs and returns its
// result. It renders inline (no alt screen). ctrl+c cancels the task's context.
func RunLoader[T any](ctx context.Context, label string, taskFn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel[T]{
		label:  label,
		ctx:    ctx,
		cancel: cancel,
		taskFn: taskFn,
	}
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("run loader: %w", err)
	}
	fm := final.(loaderModel[T])
	return fm.result, fm.err
}
