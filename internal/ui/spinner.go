package ui

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
)

// SpinnerModel shows a spinner while a background task runs.
type SpinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
	err      error
}

// NewSpinner creates a spinner with a message.
func NewSpinner(message string) SpinnerModel {
	return SpinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(string(Primary)))),
		),
		message: message,
	}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskDoneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SpinnerModel) View() tea.View {
	if m.quitting {
		if m.err != nil {
			return tea.NewView(ErrorStyle.Render("✗ "+m.message+" failed: "+m.err.Error()) + "\n")
		}
		return tea.NewView(SuccessStyle.Render("✓ "+m.message) + "\n")
	}
	return tea.NewView(m.spinner.View() + " " + m.message + "\n")
}

type taskDoneMsg struct{ err error }

// RunWithSpinner runs fn behind a spinner, or with plain progress lines off a terminal.
func RunWithSpinner(message string, fn func() error) error {
	if !IsInteractiveTerminal() {
		start := time.Now()
		err := fn()
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Printf("✗ %s failed (%s): %v\n", message, elapsed, err)
		} else {
			fmt.Printf("✓ %s (%s)\n", message, elapsed)
		}
		return err
	}

	p := tea.NewProgram(NewSpinner(message))
	errCh := make(chan error, 1)
	go func() {
		err := fn()
		errCh <- err
		p.Send(taskDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return <-errCh
}
