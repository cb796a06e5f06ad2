// Package ui provides ephemeral status notifications rendered below a TUI view.
package ui

import (
	"strings"
	"time"

	"github.com/bilisonic/bilisonic/style"
	tea "github.com/charmbracelet/bubbletea"
)

// notificationLifetime is how long a notification stays visible.
const notificationLifetime = 3 * time.Second

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification string
	// seq identifies the latest notification so an old clear does not hide a newer one.
	seq int
}

// NotificationMsg shows its text until it expires.
type NotificationMsg string

// clearNotificationMsg resets the notification with the same seq.
type clearNotificationMsg struct {
	seq int
}

// Notify returns a tea.Cmd that displays text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.seq++
		seq := m.seq
		return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
			return clearNotificationMsg{seq: seq}
		})
	case clearNotificationMsg:
		if msg.seq == m.seq {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
