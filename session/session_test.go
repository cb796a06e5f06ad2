package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/bilisonic/bilisonic/player"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHandle struct {
	url     string
	headers map[string]string
	onEvent player.EventFunc

	mu      sync.Mutex
	closes  int
	pauses  int
	resumes int
}

func (h *fakeHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pauses++
	return nil
}

func (h *fakeHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resumes++
	return nil
}

func (h *fakeHandle) Position() (float64, error) {
	return 42.5, nil
}

func (h *fakeHandle) Metadata() (*player.Metadata, error) {
	return &player.Metadata{Title: h.url, Duration: 180}, nil
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	return nil
}

func (h *fakeHandle) count(n *int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return *n
}

// fire delivers an event from a foreign goroutine, the way a real engine does.
func (h *fakeHandle) fire(event player.Event, value any) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.onEvent(event, value)
	}()
	<-done
}

type fakeEngine struct {
	mu      sync.Mutex
	handles []*fakeHandle
	fail    error
}

func (e *fakeEngine) Open(url string, headers map[string]string, opts player.Options, onEvent player.EventFunc) (player.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fail != nil {
		return nil, &player.OpenError{URL: url, Err: e.fail}
	}

	h := &fakeHandle{url: url, headers: headers, onEvent: onEvent}
	e.handles = append(e.handles, h)
	return h, nil
}

func (e *fakeEngine) last() *fakeHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handles[len(e.handles)-1]
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func resolvedSoon(c *Completion) bool {
	select {
	case <-c.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

const never = time.Hour

func TestIdleSession(t *testing.T) {
	Convey("Given an idle session", t, func() {
		s := New(&fakeEngine{}, Config{SettleDelay: never})
		defer s.Close()

		Convey("Control operations are no-ops", func() {
			So(func() { s.Pause() }, ShouldNotPanic)
			So(func() { s.Resume() }, ShouldNotPanic)
			So(func() { s.Stop() }, ShouldNotPanic)
			So(s.State(), ShouldEqual, Idle)
		})

		Convey("Queries are unavailable", func() {
			So(s.Elapsed().IsAbsent(), ShouldBeTrue)
			So(s.Metadata().IsAbsent(), ShouldBeTrue)
		})

		Convey("Await returns immediately", func() {
			res, err := s.Await(context.Background())
			So(err, ShouldBeNil)
			So(res.Outcome, ShouldEqual, Stopped)
		})
	})
}

func TestStartAndStop(t *testing.T) {
	Convey("Given a session with a slow load gate", t, func() {
		engine := &fakeEngine{}
		headers := map[string]string{"Referer": "https://www.bilibili.com/"}
		s := New(engine, Config{SettleDelay: never, Headers: headers, Options: player.AudioOnly()})
		defer s.Close()

		c, err := s.Start("https://cdn/a.m4s")
		So(err, ShouldBeNil)
		h := engine.last()

		Convey("The handle gets the configured headers", func() {
			So(h.headers, ShouldResemble, headers)
		})

		Convey("It is Loading and ignores control operations", func() {
			So(s.State(), ShouldEqual, Loading)

			s.Pause()
			s.Resume()
			So(h.count(&h.pauses), ShouldEqual, 0)
			So(h.count(&h.resumes), ShouldEqual, 0)
			So(s.Elapsed().IsAbsent(), ShouldBeTrue)
			So(s.State(), ShouldEqual, Loading)
		})

		Convey("Stop before the gate settles returns to Idle and releases the handle once", func() {
			s.Stop()

			So(s.State(), ShouldEqual, Idle)
			So(c.Resolved(), ShouldBeTrue)

			res, err := c.Wait(context.Background())
			So(err, ShouldBeNil)
			So(res.Outcome, ShouldEqual, Stopped)
			So(h.count(&h.closes), ShouldEqual, 1)

			s.Stop()
			So(h.count(&h.closes), ShouldEqual, 1)
		})

		Convey("A late end of stream from the stopped handle is ignored", func() {
			s.Stop()
			h.fire(player.EventEndOfStream, nil)
			So(s.State(), ShouldEqual, Idle)
			So(h.count(&h.closes), ShouldEqual, 1)
		})

		Convey("An engine readiness event opens the gate early", func() {
			h.fire(player.EventReady, nil)
			So(eventually(func() bool { return s.State() == Ready }), ShouldBeTrue)
		})
	})
}

func TestReady(t *testing.T) {
	Convey("Given a started session whose gate has settled", t, func() {
		engine := &fakeEngine{}
		s := New(engine, Config{SettleDelay: 10 * time.Millisecond})
		defer s.Close()

		c, err := s.Start("https://cdn/a.m4s")
		So(err, ShouldBeNil)
		h := engine.last()
		So(eventually(func() bool { return s.State() == Ready }), ShouldBeTrue)

		Convey("Control operations are forwarded", func() {
			s.Pause()
			s.Resume()
			So(h.count(&h.pauses), ShouldEqual, 1)
			So(h.count(&h.resumes), ShouldEqual, 1)
		})

		Convey("Queries are answered", func() {
			So(s.Elapsed().MustGet(), ShouldEqual, 42500*time.Millisecond)
			So(s.Metadata().MustGet().Title, ShouldEqual, "https://cdn/a.m4s")
		})

		Convey("End of stream resolves the completion and releases the handle", func() {
			h.fire(player.EventEndOfStream, nil)

			So(resolvedSoon(c), ShouldBeTrue)
			res, _ := c.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Finished)
			So(eventually(func() bool { return s.State() == Idle }), ShouldBeTrue)
			So(h.count(&h.closes), ShouldEqual, 1)

			Convey("A later pause is a no-op", func() {
				So(func() { s.Pause() }, ShouldNotPanic)
				So(h.count(&h.pauses), ShouldEqual, 0)
			})
		})

		Convey("An engine error followed by end of stream fails the attempt", func() {
			boom := errors.New("loading failed")
			h.fire(player.EventError, boom)
			h.fire(player.EventEndOfStream, nil)

			So(resolvedSoon(c), ShouldBeTrue)
			res, _ := c.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Failed)
			So(res.Err, ShouldEqual, boom)
		})

		Convey("All awaiters are released together", func() {
			var wg sync.WaitGroup
			results := make(chan Outcome, 3)
			for i := 0; i < 3; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := s.Await(context.Background())
					if err == nil {
						results <- res.Outcome
					}
				}()
			}

			s.Stop()
			wg.Wait()
			close(results)

			var got []Outcome
			for o := range results {
				got = append(got, o)
			}
			So(got, ShouldResemble, []Outcome{Stopped, Stopped, Stopped})
		})

		Convey("Cancelling an awaiter does not stop playback", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			_, err := s.Await(ctx)
			So(err, ShouldEqual, context.DeadlineExceeded)
			So(s.State(), ShouldEqual, Ready)
			So(h.count(&h.closes), ShouldEqual, 0)
		})
	})
}

func TestSupersession(t *testing.T) {
	Convey("Given playback of A superseded by B", t, func() {
		engine := &fakeEngine{}
		s := New(engine, Config{SettleDelay: never})
		defer s.Close()

		cA, err := s.Start("a")
		So(err, ShouldBeNil)
		hA := engine.last()

		cB, err := s.Start("b")
		So(err, ShouldBeNil)
		hB := engine.last()

		So(cA, ShouldNotEqual, cB)

		Convey("A is stopped and released exactly once", func() {
			So(cA.Resolved(), ShouldBeTrue)
			res, _ := cA.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Stopped)
			So(hA.count(&hA.closes), ShouldEqual, 1)
			So(hB.count(&hB.closes), ShouldEqual, 0)
		})

		Convey("Late events from A do not touch B", func() {
			hA.fire(player.EventReady, nil)
			hA.fire(player.EventEndOfStream, nil)

			So(s.State(), ShouldEqual, Loading)
			So(cB.Resolved(), ShouldBeFalse)
		})

		Convey("B's completion belongs to B", func() {
			hB.fire(player.EventEndOfStream, nil)
			So(resolvedSoon(cB), ShouldBeTrue)
			res, _ := cB.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Finished)

			res, _ = cA.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Stopped)
		})
	})
}

func TestOpenFailure(t *testing.T) {
	Convey("Given an engine that cannot open", t, func() {
		engine := &fakeEngine{fail: errors.New("unreachable")}
		s := New(engine, Config{SettleDelay: never})
		defer s.Close()

		c, err := s.Start("https://nowhere/a.m4s")

		Convey("Start fails synchronously with an open error", func() {
			var openErr *player.OpenError
			So(errors.As(err, &openErr), ShouldBeTrue)
			So(openErr.URL, ShouldEqual, "https://nowhere/a.m4s")
		})

		Convey("The session stays Idle and the attempt's completion is resolved", func() {
			So(s.State(), ShouldEqual, Idle)
			So(c.Resolved(), ShouldBeTrue)
			res, _ := c.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Failed)
		})

		Convey("The session is usable for another start", func() {
			engine.mu.Lock()
			engine.fail = nil
			engine.mu.Unlock()

			_, err := s.Start("https://cdn/b.m4s")
			So(err, ShouldBeNil)
			So(s.State(), ShouldEqual, Loading)
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given a playing session", t, func() {
		engine := &fakeEngine{}
		s := New(engine, Config{SettleDelay: never})

		c, err := s.Start("a")
		So(err, ShouldBeNil)
		h := engine.last()

		Convey("Close stops playback and rejects later starts", func() {
			s.Close()
			So(c.Resolved(), ShouldBeTrue)
			So(h.count(&h.closes), ShouldEqual, 1)

			_, err := s.Start("b")
			So(err, ShouldEqual, ErrClosed)
			So(s.State(), ShouldEqual, Idle)
			So(func() { s.Close() }, ShouldNotPanic)
		})
	})
}

func TestExactlyOnceResolution(t *testing.T) {
	Convey("Random interleavings resolve each completion exactly once", t, func() {
		engine := &fakeEngine{}
		s := New(engine, Config{SettleDelay: time.Millisecond})
		defer s.Close()

		rnd := rand.New(rand.NewSource(7))

		for round := 0; round < 50; round++ {
			c, err := s.Start("track")
			So(err, ShouldBeNil)
			h := engine.last()

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				op := rnd.Intn(4)
				wg.Add(1)
				go func() {
					defer wg.Done()
					switch op {
					case 0:
						s.Pause()
					case 1:
						s.Resume()
					case 2:
						h.onEvent(player.EventEndOfStream, nil)
					case 3:
						s.Stop()
					}
				}()
			}
			wg.Wait()

			// make sure the attempt ends even if no goroutine ended it
			s.Stop()

			So(c.Resolved(), ShouldBeTrue)
			So(h.count(&h.closes), ShouldEqual, 1)
		}
	})
}

func TestCompletion(t *testing.T) {
	Convey("A completion", t, func() {
		c := newCompletion()
		So(c.Resolved(), ShouldBeFalse)

		c.resolve(Result{Outcome: Finished})
		So(c.Resolved(), ShouldBeTrue)

		res, err := c.Wait(context.Background())
		So(err, ShouldBeNil)
		So(res.Outcome, ShouldEqual, Finished)

		Convey("Panics when resolved twice", func() {
			So(func() { c.resolve(Result{Outcome: Stopped}) }, ShouldPanic)
		})
	})
}

// slowEngine blocks in Open until proceed is closed, like mpv creating its socket.
type slowEngine struct {
	fakeEngine
	opening chan struct{}
	proceed chan struct{}
	// beforeReturn runs with the handle's callback before Open returns
	beforeReturn func(player.EventFunc)
}

func newSlowEngine() *slowEngine {
	return &slowEngine{opening: make(chan struct{}, 1), proceed: make(chan struct{})}
}

func (e *slowEngine) Open(url string, headers map[string]string, opts player.Options, onEvent player.EventFunc) (player.Handle, error) {
	e.opening <- struct{}{}
	<-e.proceed

	if e.beforeReturn != nil {
		e.beforeReturn(onEvent)
	}

	return e.fakeEngine.Open(url, headers, opts, onEvent)
}

func TestSlowOpen(t *testing.T) {
	Convey("Given an engine that takes a while to open", t, func() {
		engine := newSlowEngine()
		s := New(engine, Config{SettleDelay: never})
		defer s.Close()

		type started struct {
			c   *Completion
			err error
		}
		result := make(chan started, 1)
		go func() {
			c, err := s.Start("a")
			result <- started{c, err}
		}()
		<-engine.opening

		Convey("The session keeps answering while the engine opens", func() {
			begin := time.Now()
			So(s.State(), ShouldEqual, Loading)
			So(s.Elapsed().IsAbsent(), ShouldBeTrue)
			s.Pause()
			So(time.Since(begin), ShouldBeLessThan, 500*time.Millisecond)

			close(engine.proceed)
			r := <-result
			So(r.err, ShouldBeNil)
			So(r.c.Resolved(), ShouldBeFalse)
			So(s.State(), ShouldEqual, Loading)
		})

		Convey("Stop while opening resolves the attempt and closes the late handle", func() {
			s.Stop()
			So(s.State(), ShouldEqual, Idle)

			close(engine.proceed)
			r := <-result
			So(r.err, ShouldBeNil)
			So(r.c.Resolved(), ShouldBeTrue)
			res, _ := r.c.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Stopped)

			h := engine.last()
			So(h.count(&h.closes), ShouldEqual, 1)
			So(s.State(), ShouldEqual, Idle)
		})
	})

	Convey("Given an engine that reports before Open returns", t, func() {
		engine := newSlowEngine()
		close(engine.proceed)
		engine.beforeReturn = func(onEvent player.EventFunc) {
			onEvent(player.EventReady, nil)
			onEvent(player.EventEndOfStream, nil)
		}
		s := New(engine, Config{SettleDelay: never})
		defer s.Close()

		c, err := s.Start("a")
		<-engine.opening
		So(err, ShouldBeNil)

		Convey("The early notifications apply to the attached handle", func() {
			So(resolvedSoon(c), ShouldBeTrue)
			res, _ := c.Wait(context.Background())
			So(res.Outcome, ShouldEqual, Finished)

			h := engine.last()
			So(eventually(func() bool { return h.count(&h.closes) == 1 }), ShouldBeTrue)
			So(s.State(), ShouldEqual, Idle)
		})
	})
}
