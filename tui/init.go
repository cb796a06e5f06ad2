package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and the now-playing refresh ticker.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.tick())
}
