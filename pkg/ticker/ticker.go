package ticker

import (
	"sync"
	"time"

	"github.com/countdown-go/countdown/pkg/clock"
)

// Interval is the tick period.
const Interval = time.Second

// State represents the ticker state.
type State uint8

const (
	// StateInactive indicates no tick is scheduled.
	StateInactive State = iota

	// StateScheduled indicates a tick is scheduled or running.
	StateScheduled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "INACTIVE"
	case StateScheduled:
		return "SCHEDULED"
	default:
		return "UNKNOWN"
	}
}

// SecondTicker invokes a callback on every whole-second boundary of a target
// instant until cancelled.
type SecondTicker struct {
	mu sync.Mutex

	clock clock.Clock

	// target is the phase reference; zero means none.
	target time.Time
	onTick func()

	// Outstanding callback and the generation it was scheduled under.
	handle clock.Handle
	gen    uint64
	active bool
}

// New creates an inactive ticker. A nil clock uses clock.Real().
func New(c clock.Clock) *SecondTicker {
	if c == nil {
		c = clock.Real()
	}
	return &SecondTicker{clock: c}
}

// NextDelay returns the time from now until the next whole-second boundary
// on target's grid. The result is in (0, Interval].
func NextDelay(now, target time.Time) time.Duration {
	rem := now.Sub(target) % Interval
	if rem < 0 {
		rem += Interval
	}
	return Interval - rem
}

// Start anchors the ticker to target and begins scheduling onTick. Any
// outstanding tick is cancelled first.
func (t *SecondTicker) Start(target time.Time, onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.target = target
	t.onTick = onTick
	t.rescheduleLocked()
}

// SetTarget re-anchors the ticker. Setting the current target again is a
// no-op. A zero target cancels the ticker. Before Start the target is only
// recorded.
func (t *SecondTicker) SetTarget(target time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.target.Equal(target) {
		return
	}
	t.target = target
	t.rescheduleLocked()
}

// Cancel stops the ticker. A pending tick never runs, including one whose
// timer already fired but has not been committed yet. A tick committed before
// Cancel took the lock may still be running its callback when Cancel returns;
// it finishes without rescheduling. Cancel never waits for it, so it is safe
// to call from the callback. Calling Cancel on an inactive ticker is a no-op.
func (t *SecondTicker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Target returns the current phase reference (zero if none).
func (t *SecondTicker) Target() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// State returns the current ticker state.
func (t *SecondTicker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return StateScheduled
	}
	return StateInactive
}

func (t *SecondTicker) cancelLocked() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	t.gen++
	t.active = false
}

func (t *SecondTicker) rescheduleLocked() {
	t.cancelLocked()
	if t.target.IsZero() || t.onTick == nil {
		return
	}
	t.scheduleLocked()
}

func (t *SecondTicker) scheduleLocked() {
	t.gen++
	gen := t.gen
	delay := NextDelay(t.clock.Now(), t.target)
	t.handle = t.clock.AfterFunc(delay, func() { t.fire(gen) })
	t.active = true
}

// fire runs one tick for generation gen and schedules the next one from the
// clock's current time. The tick is committed once the generation check
// passes under the lock.
func (t *SecondTicker) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.handle = nil
	onTick := t.onTick
	t.mu.Unlock()

	// Outside the lock: onTick may call Cancel or SetTarget.
	onTick()

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.gen {
		t.scheduleLocked()
	}
}
