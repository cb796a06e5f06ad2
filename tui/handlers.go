package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilisonic/bilisonic/history"
	"github.com/bilisonic/bilisonic/internal/ui"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/network"
	"github.com/bilisonic/bilisonic/player"
	"github.com/bilisonic/bilisonic/selector"
	"github.com/bilisonic/bilisonic/session"
	"github.com/bilisonic/bilisonic/source"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type (
	// resolvedMsg carries the stream chosen for play request gen.
	resolvedMsg struct {
		gen    uint64
		stream *source.Stream
		err    error
	}

	// startedMsg reports whether the session accepted the stream of play request gen.
	startedMsg struct {
		gen        uint64
		completion *session.Completion
		err        error
	}

	// statusMsg is a snapshot of the session for the now-playing pane.
	statusMsg struct {
		gen      uint64
		state    session.State
		elapsed  mo.Option[time.Duration]
		metadata mo.Option[*player.Metadata]
	}

	// pausedMsg reports a pause toggle of play request gen.
	pausedMsg struct {
		gen     uint64
		paused  bool
		loading bool
	}

	// playbackFinishedMsg reports the completion of play request gen.
	playbackFinishedMsg struct {
		gen    uint64
		result session.Result
	}

	tickMsg time.Time
)

// playTrack resolves and starts the track at index. Any earlier request is superseded.
func (b *statefulBubble) playTrack(index int) tea.Cmd {
	items := b.tracksC.Items()
	if index < 0 || index >= len(items) {
		return nil
	}

	track, ok := items[index].(*listItem).internal.(*source.Track)
	if !ok {
		return nil
	}

	b.gen++
	b.player.Stop()
	b.playing = mo.Some(&nowPlaying{index: index, track: track, resolving: true})
	b.markPlaying(index)

	return tea.Batch(b.spinnerC.Tick, b.resolve(b.gen, track))
}

// resolve fetches the candidates of track and selects the stream to play.
func (b *statefulBubble) resolve(gen uint64, track *source.Track) tea.Cmd {
	resolver := b.resolver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), network.DefaultTimeout)
		defer cancel()

		streams, err := resolver.Resolve(ctx, track)
		if err != nil {
			return resolvedMsg{gen: gen, err: err}
		}

		stream, err := selector.Select(streams)
		return resolvedMsg{gen: gen, stream: stream, err: err}
	}
}

// onResolved hands a resolved stream to the session unless the request was superseded.
func (b *statefulBubble) onResolved(msg resolvedMsg) tea.Cmd {
	np, ok := b.playing.Get()
	if msg.gen != b.gen || !ok {
		return nil
	}

	if msg.err != nil {
		b.clearPlaying()
		if errors.Is(msg.err, source.ErrNoStreamAvailable) {
			return ui.Notify(fmt.Sprintf("%s: nothing to play", np.track))
		}
		b.log.WithError(msg.err).Warnf("resolving %s", np.track.BVID)
		return ui.Notify(msg.err.Error())
	}

	np.stream = msg.stream
	return b.start(msg.gen, msg.stream.URL)
}

// start opens url in the session in the background.
func (b *statefulBubble) start(gen uint64, url string) tea.Cmd {
	p := b.player
	return func() tea.Msg {
		completion, err := p.Start(url)
		return startedMsg{gen: gen, completion: completion, err: err}
	}
}

// onStarted begins waiting for an accepted stream. A stream started for a
// superseded request is stopped again.
func (b *statefulBubble) onStarted(msg startedMsg) tea.Cmd {
	np, ok := b.playing.Get()
	if msg.gen != b.gen || !ok {
		if msg.completion == nil {
			return nil
		}

		p, completion := b.player, msg.completion
		return func() tea.Msg {
			p.Cancel(completion)
			return nil
		}
	}

	if msg.err != nil {
		b.clearPlaying()
		b.log.WithError(msg.err).Warnf("starting %s", np.track.BVID)
		return ui.Notify(fmt.Sprintf("cannot play %s: %v", np.track, msg.err))
	}

	np.resolving = false
	np.state = session.Loading

	return b.await(msg.gen, np.track, msg.completion)
}

// await waits for a play attempt to end in the background and records it in the history.
func (b *statefulBubble) await(gen uint64, track *source.Track, completion *session.Completion) tea.Cmd {
	return func() tea.Msg {
		result, _ := completion.Wait(context.Background())

		if viper.GetBool(key.HistorySaveOnPlay) {
			if err := history.Save(track, result.Outcome == session.Finished); err != nil {
				b.log.WithError(err).Warn("saving history")
			}
		}

		return playbackFinishedMsg{gen: gen, result: result}
	}
}

// onFinished moves on after a play attempt ended on its own.
func (b *statefulBubble) onFinished(msg playbackFinishedMsg) tea.Cmd {
	if msg.gen != b.gen {
		return nil
	}

	np, ok := b.playing.Get()
	if !ok {
		return nil
	}
	b.clearPlaying()

	switch msg.result.Outcome {
	case session.Finished:
		if viper.GetBool(key.PlayerAutoplay) {
			return b.playTrack(np.index + 1)
		}
	case session.Failed:
		return ui.Notify(fmt.Sprintf("%s: %v", np.track, msg.result.Err))
	}

	return nil
}

// stopPlayback stops the session and drops any pending play request.
func (b *statefulBubble) stopPlayback() {
	b.gen++
	b.player.Stop()
	b.clearPlaying()
}

// togglePause pauses or resumes the current track. It only forwards a call that
// changes the engine's state, and never while the stream is still loading.
func (b *statefulBubble) togglePause() tea.Cmd {
	np, ok := b.playing.Get()
	if !ok || np.resolving || np.toggling {
		return nil
	}

	np.toggling = true
	p, gen, pause := b.player, b.gen, !np.paused

	return func() tea.Msg {
		if p.State() != session.Ready {
			return pausedMsg{gen: gen, paused: !pause, loading: true}
		}

		if pause {
			p.Pause()
		} else {
			p.Resume()
		}

		return pausedMsg{gen: gen, paused: pause}
	}
}

func (b *statefulBubble) onPaused(msg pausedMsg) tea.Cmd {
	np, ok := b.playing.Get()
	if msg.gen != b.gen || !ok {
		return nil
	}

	np.toggling = false
	if msg.loading {
		return ui.Notify("still loading")
	}

	np.paused = msg.paused
	return nil
}

// skip plays the track delta positions away from the current (or selected) one.
func (b *statefulBubble) skip(delta int) tea.Cmd {
	index := b.tracksC.Index()
	if np, ok := b.playing.Get(); ok {
		index = np.index
	}

	next := index + delta
	if next < 0 || next >= len(b.tracksC.Items()) {
		return ui.Notify("no more tracks")
	}

	b.tracksC.Select(next)
	return b.playTrack(next)
}

func (b *statefulBubble) clearPlaying() {
	b.playing = mo.None[*nowPlaying]()
	b.markPlaying(-1)
}

// markPlaying flags the playlist item at index, clearing the others.
func (b *statefulBubble) markPlaying(index int) {
	for _, item := range b.tracksC.Items() {
		li := item.(*listItem)
		li.marked = li.index == index
	}
}

func (b *statefulBubble) tick() tea.Cmd {
	interval := time.Duration(viper.GetInt(key.TUIRefreshInterval)) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh polls the session for the now-playing pane in the background.
func (b *statefulBubble) refresh() tea.Cmd {
	np, ok := b.playing.Get()
	if !ok || np.resolving || np.polling {
		return nil
	}

	np.polling = true
	p, gen, needMetadata := b.player, b.gen, np.metadata.IsAbsent()

	return func() tea.Msg {
		status := statusMsg{
			gen:      gen,
			state:    p.State(),
			elapsed:  p.Elapsed(),
			metadata: mo.None[*player.Metadata](),
		}
		if needMetadata {
			status.metadata = p.Metadata()
		}
		return status
	}
}

func (b *statefulBubble) onStatus(msg statusMsg) {
	np, ok := b.playing.Get()
	if msg.gen != b.gen || !ok {
		return
	}

	np.polling = false
	np.state = msg.state
	if elapsed, ok := msg.elapsed.Get(); ok {
		np.elapsed = elapsed
	}
	if np.metadata.IsAbsent() {
		np.metadata = msg.metadata
	}
}

// loadHistory fills the history list, most recent first.
func (b *statefulBubble) loadHistory() error {
	entries, err := history.Recent()
	if err != nil {
		return err
	}

	b.historyC.SetItems(lo.Map(entries, func(e *history.Entry, i int) list.Item {
		return &listItem{internal: e, index: i}
	}))

	return nil
}

// playHistoryEntry plays an entry from the history, adding it to the playlist when absent.
func (b *statefulBubble) playHistoryEntry(entry *history.Entry) tea.Cmd {
	items := b.tracksC.Items()

	_, index, found := lo.FindIndexOf(items, func(item list.Item) bool {
		track, ok := item.(*listItem).internal.(*source.Track)
		return ok && track.BVID == entry.BVID && track.Page == entry.Page
	})

	if !found {
		index = len(items)
		b.tracksC.InsertItem(index, &listItem{internal: entry.Track(), index: index})
	}

	b.tracksC.Select(index)
	b.previousState()
	return b.playTrack(index)
}
