package session

import (
	"context"
	"fmt"
	"sync"
)

// Outcome tells how a play attempt ended.
type Outcome int

const (
	// Stopped means Stop (or a superseding Start, or Close) ended the attempt.
	Stopped Outcome = iota
	// Finished means the engine reached the end of the stream.
	Finished
	// Failed means the handle could not be opened or the engine reported an error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the value a Completion resolves to.
type Result struct {
	Outcome Outcome
	// Err is set when Outcome is Failed.
	Err error
}

// Completion is a single-assignment signal for one play attempt.
// Any number of goroutines may wait on it; all are released together.
type Completion struct {
	done   chan struct{}
	once   sync.Once
	result Result
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolve sets the result. A second call is a programming error.
func (c *Completion) resolve(r Result) {
	resolved := false
	c.once.Do(func() {
		c.result = r
		close(c.done)
		resolved = true
	})

	if !resolved {
		panic(&InvariantViolation{Msg: fmt.Sprintf("completion resolved twice (second outcome: %s)", r.Outcome)})
	}
}

// Done is closed when the completion resolves.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Resolved reports whether the completion has a result.
func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the completion resolves or ctx ends.
// Giving up on the wait does not stop playback.
func (c *Completion) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
