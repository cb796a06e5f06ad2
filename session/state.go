package session

import "fmt"

// State of a session.
type State int

const (
	// Idle has no decode handle.
	Idle State = iota
	// Loading is opening a handle or has one that may not be initialised yet.
	// Control operations are ignored.
	Loading
	// Ready forwards control operations to the handle.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InvariantViolation is the panic value used when the session finds itself in a
// state it must never reach. It always indicates a bug.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "session invariant violated: " + e.Msg
}
