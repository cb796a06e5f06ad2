// Package player defines the decode engine abstraction used by playback sessions.
// The only implementation drives an 'mpv' process through its JSON-IPC interface.
package player

import "fmt"

// Event names a notification delivered by an open handle.
type Event string

const (
	// EventEndOfStream is delivered once when the media finished or the engine
	// stopped on its own (including crashes). It is never delivered after Close.
	EventEndOfStream Event = "end-of-stream"

	// EventReady is delivered when the engine has the media loaded.
	EventReady Event = "ready"

	// EventError carries a decoding or network failure reported by the engine.
	EventError Event = "error"

	// EventPause reports a change of the engine's own pause flag.
	EventPause Event = "pause"
)

// EventFunc receives handle notifications. It is called from a goroutine owned by
// the engine and must not block.
type EventFunc func(event Event, value any)

// Options selects engine behaviour for a single handle.
type Options struct {
	// NoVideo disables video decoding.
	NoVideo bool
	// NoSubtitles disables subtitle tracks.
	NoSubtitles bool
	// AutoExit terminates the engine at end of stream instead of idling.
	AutoExit bool
	// Reconnect asks the demuxer to reconnect dropped HTTP streams.
	Reconnect bool
	// Volume is the initial volume from 0 to 100. Negative leaves the engine default.
	Volume int
}

// AudioOnly returns the options used for audio playback.
func AudioOnly() Options {
	return Options{
		NoVideo:     true,
		NoSubtitles: true,
		AutoExit:    true,
		Reconnect:   true,
		Volume:      -1,
	}
}

// Metadata describes the media loaded in a handle.
type Metadata struct {
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Tags     map[string]string `json:"tags"`
}

// Handle is a live, decoding media session. Handles are not reusable: once closed,
// every method except Close returns an error.
type Handle interface {
	Pause() error
	Resume() error

	// Position returns the playback position in seconds.
	Position() (float64, error)

	Metadata() (*Metadata, error)

	// Close stops decoding and releases the engine. It is safe to call more than once.
	Close() error
}

// Engine opens handles.
type Engine interface {
	// Open starts decoding url. It returns once the engine accepts commands, not
	// once audio is audible. Failures are reported as *OpenError.
	Open(url string, headers map[string]string, opts Options, onEvent EventFunc) (Handle, error)
}

// OpenError reports that the engine could not be started for a URL.
type OpenError struct {
	URL string
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.URL, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
