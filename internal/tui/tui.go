package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunBoard starts the interactive task board and blocks until it exits.
func RunBoard(actions BoardActions, now func() time.Time) error {
	model := NewBoardModel(actions, now)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(BoardModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
