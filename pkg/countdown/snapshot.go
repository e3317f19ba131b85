package countdown

import (
	"fmt"
	"time"
)

// State represents the countdown lifecycle state.
type State uint8

const (
	// StateIdle indicates the countdown has not started.
	StateIdle State = iota

	// StateRunning indicates the countdown is ticking.
	StateRunning

	// StateFinished indicates the end instant was reached.
	StateFinished

	// StateCancelled indicates the user closed the countdown early.
	StateCancelled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateFinished:
		return "FINISHED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateCancelled
}

// Snapshot is the countdown state a front end renders.
type Snapshot struct {
	// SessionID identifies the run.
	SessionID string

	// State is the lifecycle state.
	State State

	// End is the instant the countdown runs to.
	End time.Time

	// Now is the second boundary of the last tick. Before the first tick it
	// is the start instant.
	Now time.Time

	// Total is the selected duration.
	Total time.Duration

	// Ticks is the number of ticks delivered so far.
	Ticks uint64

	// Lateness is how long after its second boundary the last tick ran.
	Lateness time.Duration
}

// SecondsLeft returns floor((End - Now) / 1s). It is negative once Now is
// more than a second past End.
func (s Snapshot) SecondsLeft() int64 {
	return floorSeconds(s.End.Sub(s.Now))
}

// Remaining returns End - Now, clamped at zero.
func (s Snapshot) Remaining() time.Duration {
	if r := s.End.Sub(s.Now); r > 0 {
		return r
	}
	return 0
}

// Progress returns the remaining fraction of Total in [0, 1]. It drives the
// progress ring: 1 at start, 0 at the end.
func (s Snapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Remaining()) / float64(s.Total)
	if p > 1 {
		return 1
	}
	return p
}

// Readout renders the remaining time as M:SS. Hours are folded into
// minutes.
func (s Snapshot) Readout() string {
	secs := s.SecondsLeft()
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func floorSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if d%time.Second < 0 {
		secs--
	}
	return secs
}

// gridOffset returns (t - anchor) mod 1s, floored into [0, 1s).
func gridOffset(t, anchor time.Time) time.Duration {
	rem := t.Sub(anchor) % time.Second
	if rem < 0 {
		rem += time.Second
	}
	return rem
}
