package tui

import (
	"github.com/bilisonic/bilisonic/history"
	"github.com/bilisonic/bilisonic/internal/ui"
	"github.com/bilisonic/bilisonic/open"
	"github.com/bilisonic/bilisonic/source"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Ephemeral notifications (ui.NotificationMsg and its expiry).
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tickMsg:
		return b, tea.Batch(append(cmds, b.refresh(), b.tick())...)
	case statusMsg:
		b.onStatus(msg)
		return b, tea.Batch(cmds...)
	case resolvedMsg:
		return b, tea.Batch(append(cmds, b.onResolved(msg))...)
	case startedMsg:
		return b, tea.Batch(append(cmds, b.onStarted(msg))...)
	case pausedMsg:
		return b, tea.Batch(append(cmds, b.onPaused(msg))...)
	case playbackFinishedMsg:
		return b, tea.Batch(append(cmds, b.onFinished(msg))...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.stopPlayback()
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case tracksState:
		cmd = b.updateTracks(msg)
	case historyState:
		cmd = b.updateHistory(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateTracks(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)

	// keys belong to the filter input while typing
	if ok && b.tracksC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.play):
			item, ok := b.tracksC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			return b.playTrack(item.index)
		case bubblesKey.Matches(keyMsg, b.keymap.playPause):
			if b.playing.IsPresent() {
				return b.togglePause()
			}
			item, ok := b.tracksC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			return b.playTrack(item.index)
		case bubblesKey.Matches(keyMsg, b.keymap.stop):
			b.stopPlayback()
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.quit):
			if b.playing.IsPresent() {
				b.stopPlayback()
				return nil
			}
			return tea.Quit
		case bubblesKey.Matches(keyMsg, b.keymap.next):
			return b.skip(1)
		case bubblesKey.Matches(keyMsg, b.keymap.prev):
			return b.skip(-1)
		case bubblesKey.Matches(keyMsg, b.keymap.openURL):
			item, ok := b.tracksC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			if err := open.Start(item.internal.(*source.Track).WebURL()); err != nil {
				return ui.Notify(err.Error())
			}
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.history):
			if err := b.loadHistory(); err != nil {
				return ui.Notify(err.Error())
			}
			b.newState(historyState)
			return nil
		}
	}

	var cmd tea.Cmd
	b.tracksC, cmd = b.tracksC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.back):
			if b.historyC.FilterState() == list.Unfiltered {
				b.previousState()
				return nil
			}
		case bubblesKey.Matches(keyMsg, b.keymap.play):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			return b.playHistoryEntry(item.internal.(*history.Entry))
		case bubblesKey.Matches(keyMsg, b.keymap.remove):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			if err := history.Remove(item.internal.(*history.Entry)); err != nil {
				return ui.Notify(err.Error())
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return nil
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.back) {
		b.lastError = nil
		b.previousState()
	}
	return nil
}
