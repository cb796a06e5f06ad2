// Package session manages the lifecycle of one audio playback at a time.
//
// A Session owns at most one decode handle. All of its state lives on a single
// goroutine (the loop); exported methods hand closures to the loop and wait for
// them, while engine notifications and the load-gate timer are posted without
// waiting. The only call that blocks for the duration of playback is Await
// (or Completion.Wait).
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/player"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// DefaultSettleDelay is used when Config.SettleDelay is not positive.
const DefaultSettleDelay = 100 * time.Millisecond

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("session closed")

// Config configures a Session.
type Config struct {
	// Headers are sent with every media request (referer-gated origins).
	Headers map[string]string
	// Options are passed to the engine for every handle.
	Options player.Options
	// SettleDelay is how long a new handle stays Loading unless the engine reports
	// readiness earlier.
	SettleDelay time.Duration
	Log         logrus.FieldLogger
}

// Session plays one URL at a time through an engine.
type Session struct {
	engine  player.Engine
	headers map[string]string
	opts    player.Options
	settle  time.Duration
	log     logrus.FieldLogger

	ops       chan func()
	wake      chan struct{}
	inboxMu   sync.Mutex
	inbox     []func()
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	state      State
	handle     player.Handle
	completion *Completion
	gate       *time.Timer
	gen        uint64
	lastErr    error
	// opening is set while the engine opens the handle for gen
	opening bool
	early   []earlyEvent
}

// earlyEvent is a notification that arrived before its handle was attached.
type earlyEvent struct {
	event player.Event
	value any
}

// New creates an idle session and starts its loop. Call Close to release it.
func New(engine player.Engine, cfg Config) *Session {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Log == nil {
		cfg.Log = log.Discard()
	}

	s := &Session{
		engine:  engine,
		headers: cfg.Headers,
		opts:    cfg.Options,
		settle:  cfg.SettleDelay,
		log:     cfg.Log,
		ops:     make(chan func()),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		state:   Idle,
	}

	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.stopped)

	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.wake:
			s.drain()
		case <-s.quit:
			return
		}
	}
}

// do runs fn on the loop and waits for it. It returns false if the session is closed.
func (s *Session) do(fn func()) bool {
	done := make(chan struct{})

	select {
	case s.ops <- func() {
		defer close(done)
		fn()
	}:
	case <-s.quit:
		return false
	}

	<-done
	return true
}

// post queues fn on the loop without waiting. Safe to call from engine goroutines,
// including while the loop itself is blocked closing a handle. Posted closures run
// in the order they were posted.
func (s *Session) post(fn func()) {
	s.inboxMu.Lock()
	s.inbox = append(s.inbox, fn)
	s.inboxMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) drain() {
	for {
		s.inboxMu.Lock()
		if len(s.inbox) == 0 {
			s.inboxMu.Unlock()
			return
		}
		fn := s.inbox[0]
		s.inbox[0] = nil
		s.inbox = s.inbox[1:]
		s.inboxMu.Unlock()

		fn()
	}
}

// Start stops whatever is playing and opens url. It returns the completion of the
// new play attempt as soon as the engine accepted the URL, without waiting for
// the load gate. On failure the session is Idle and the returned completion is
// already resolved as Failed.
//
// The engine is opened off the loop, so the session keeps answering while the
// engine starts up. A Stop or Start issued meanwhile supersedes this attempt; its
// completion then resolves as Stopped and the late handle is closed here.
func (s *Session) Start(url string) (*Completion, error) {
	var (
		gen        uint64
		completion *Completion
	)

	if !s.do(func() { gen, completion = s.begin() }) {
		return nil, ErrClosed
	}

	onEvent := func(event player.Event, value any) {
		s.post(func() {
			s.onEvent(gen, event, value)
		})
	}

	handle, err := s.engine.Open(url, s.headers, s.opts, onEvent)

	attached := false
	ok := s.do(func() {
		attached = s.attach(gen, handle, err)
	})

	if handle != nil && !attached {
		if closeErr := handle.Close(); closeErr != nil {
			s.log.WithError(closeErr).Warn("closing superseded handle")
		}
	}

	if !ok {
		return nil, ErrClosed
	}

	return completion, err
}

// begin releases the current playback and reserves a new generation for an
// attempt whose handle is still being opened.
func (s *Session) begin() (uint64, *Completion) {
	s.release(Result{Outcome: Stopped})

	if s.handle != nil || s.gate != nil || s.opening {
		panic(&InvariantViolation{Msg: "previous handle still live while starting"})
	}

	s.gen++
	s.completion = newCompletion()
	s.lastErr = nil
	s.opening = true
	s.state = Loading

	return s.gen, s.completion
}

// attach takes ownership of the handle opened for gen. It reports false when
// the attempt was superseded and the caller must close the handle itself.
func (s *Session) attach(gen uint64, handle player.Handle, err error) bool {
	if gen != s.gen || !s.opening {
		s.log.WithField("generation", gen).Debug("attempt superseded while opening")
		return false
	}

	s.opening = false
	early := s.early
	s.early = nil

	if err != nil {
		s.log.WithError(err).Warn("open failed")
		s.state = Idle
		s.gen++
		s.completion.resolve(Result{Outcome: Failed, Err: err})
		return false
	}

	s.handle = handle
	s.gate = time.AfterFunc(s.settle, func() {
		s.post(func() {
			s.openGate(gen)
		})
	})

	s.log.WithField("generation", gen).Info("playback started")

	for _, e := range early {
		s.onEvent(gen, e.event, e.value)
	}

	return true
}

// openGate moves a Loading session to Ready unless gen was superseded.
func (s *Session) openGate(gen uint64) {
	if gen != s.gen || s.state != Loading || s.handle == nil {
		return
	}

	if s.gate != nil {
		s.gate.Stop()
		s.gate = nil
	}

	s.state = Ready
	s.log.WithField("generation", gen).Debug("load gate open")
}

func (s *Session) onEvent(gen uint64, event player.Event, value any) {
	if gen != s.gen {
		s.log.Debugf("dropping %s from superseded handle %d", event, gen)
		return
	}

	if s.opening {
		s.early = append(s.early, earlyEvent{event: event, value: value})
		return
	}

	switch event {
	case player.EventEndOfStream:
		if s.lastErr != nil {
			s.release(Result{Outcome: Failed, Err: s.lastErr})
		} else {
			s.release(Result{Outcome: Finished})
		}
	case player.EventReady:
		s.openGate(gen)
	case player.EventError:
		err, _ := value.(error)
		if err == nil {
			err = fmt.Errorf("engine error: %v", value)
		}
		s.log.WithError(err).Warn("engine reported an error")
		s.lastErr = err
	case player.EventPause:
		s.log.Debugf("engine pause flag: %v", value)
	}
}

// release resolves the pending completion, then closes the handle. No-op when Idle.
func (s *Session) release(result Result) {
	if s.opening {
		s.completion.resolve(result)
		s.opening = false
		s.early = nil
		s.state = Idle
		s.gen++
		s.log.Infof("playback %s while opening", result.Outcome)
		return
	}

	if s.handle == nil {
		if s.state != Idle {
			panic(&InvariantViolation{Msg: fmt.Sprintf("%s session without a handle", s.state)})
		}
		return
	}

	if s.gate != nil {
		s.gate.Stop()
		s.gate = nil
	}

	s.completion.resolve(result)

	handle := s.handle
	s.handle = nil
	s.state = Idle
	// late notifications from the released handle must not reach the next one
	s.gen++

	if err := handle.Close(); err != nil {
		s.log.WithError(err).Warn("closing handle")
	}

	s.log.Infof("playback %s", result.Outcome)
}

// Stop ends the current playback. Awaiters are released before the handle is closed.
func (s *Session) Stop() {
	s.do(func() {
		s.release(Result{Outcome: Stopped})
	})
}

// Cancel stops playback only if c is the completion of the current play attempt.
func (s *Session) Cancel(c *Completion) {
	s.do(func() {
		if c != nil && c == s.completion {
			s.release(Result{Outcome: Stopped})
		}
	})
}

// Pause pauses playback when Ready and does nothing otherwise.
func (s *Session) Pause() {
	s.control("pause", player.Handle.Pause)
}

// Resume resumes playback when Ready and does nothing otherwise.
func (s *Session) Resume() {
	s.control("resume", player.Handle.Resume)
}

func (s *Session) control(op string, fn func(player.Handle) error) {
	s.do(func() {
		handle, ok := s.ready(op)
		if !ok {
			return
		}

		if err := fn(handle); err != nil {
			s.log.WithError(err).Warnf("%s failed", op)
		}
	})
}

// ready returns the handle if control operations may use it.
func (s *Session) ready(op string) (player.Handle, bool) {
	if s.state != Ready {
		s.log.Debugf("%s ignored while %s", op, s.state)
		return nil, false
	}

	if s.handle == nil {
		panic(&InvariantViolation{Msg: "ready session without a handle"})
	}

	return s.handle, true
}

// Elapsed returns the playback position, or None unless Ready.
func (s *Session) Elapsed() mo.Option[time.Duration] {
	elapsed := mo.None[time.Duration]()

	s.do(func() {
		handle, ok := s.ready("elapsed")
		if !ok {
			return
		}

		seconds, err := handle.Position()
		if err != nil {
			s.log.WithError(err).Debug("position unavailable")
			return
		}

		elapsed = mo.Some(time.Duration(seconds * float64(time.Second)))
	})

	return elapsed
}

// Metadata returns what the engine knows about the media, or None unless Ready.
func (s *Session) Metadata() mo.Option[*player.Metadata] {
	metadata := mo.None[*player.Metadata]()

	s.do(func() {
		handle, ok := s.ready("metadata")
		if !ok {
			return
		}

		md, err := handle.Metadata()
		if err != nil {
			s.log.WithError(err).Debug("metadata unavailable")
			return
		}

		metadata = mo.Some(md)
	})

	return metadata
}

// State returns the current state. A closed session is Idle.
func (s *Session) State() State {
	state := Idle
	s.do(func() {
		state = s.state
	})
	return state
}

// Completion returns the completion of the latest play attempt, or nil if nothing
// was started yet.
func (s *Session) Completion() *Completion {
	var completion *Completion
	s.do(func() {
		completion = s.completion
	})
	return completion
}

// Await blocks until the latest play attempt completes or ctx ends.
// It returns immediately with Stopped when nothing was started.
// Cancelling ctx does not stop playback; call Stop for that.
func (s *Session) Await(ctx context.Context) (Result, error) {
	completion := s.Completion()
	if completion == nil {
		return Result{Outcome: Stopped}, nil
	}

	return completion.Wait(ctx)
}

// Close stops playback and terminates the loop. Further calls are no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Stop()
		close(s.quit)
		<-s.stopped
	})
}
