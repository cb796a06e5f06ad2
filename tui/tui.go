// Package tui is the interactive playlist player.
package tui

import (
	"time"

	"github.com/bilisonic/bilisonic/player"
	"github.com/bilisonic/bilisonic/session"
	"github.com/bilisonic/bilisonic/source"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Player is the playback surface the TUI drives. *session.Session implements it.
type Player interface {
	Start(url string) (*session.Completion, error)
	Pause()
	Resume()
	Stop()
	Cancel(c *session.Completion)
	State() session.State
	Elapsed() mo.Option[time.Duration]
	Metadata() mo.Option[*player.Metadata]
}

var _ Player = (*session.Session)(nil)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Title is shown above the track list, usually the playlist name.
	Title    string
	Tracks   []*source.Track
	Resolver source.Resolver
	Player   Player
	// History opens the recently played list first.
	History bool
}

// Run initializes and executes the primary Bubble Tea application loop.
// Playback is stopped before it returns.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.History {
		if err := bubble.loadHistory(); err != nil {
			return err
		}
		bubble.newState(historyState)
	}

	defer options.Player.Stop()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
