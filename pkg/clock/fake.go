package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock for deterministic tests.
//
// Callbacks never run inside AfterFunc. They run from Advance, AdvanceNext,
// or are handed back un-run by Expire. Fake is safe for concurrent use, and
// callbacks may call back into the Fake (including Advance).
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
	delays []time.Duration
}

// NewFake returns a Fake whose current time is start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	seq      uint64
	f        func()
	done     bool
}

// Now returns the fake's current time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at Now()+d and records d in the delay history.
func (c *Fake) AfterFunc(d time.Duration, f func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{
		clock:    c,
		deadline: c.now.Add(d),
		seq:      c.seq,
		f:        f,
	}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

// Stop cancels the timer if it has not fired yet.
func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	c.removeLocked(t)
	return true
}

// Set moves the clock to now without firing anything.
func (c *Fake) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by d, firing every timer that comes due in
// deadline order. The clock reads each timer's deadline while its callback
// runs.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.earliestLocked()
		if t == nil || t.deadline.After(target) {
			if c.now.Before(target) {
				c.now = target
			}
			c.mu.Unlock()
			return
		}
		c.fireLocked(t)
		c.mu.Unlock()

		t.f()
	}
}

// AdvanceNext moves the clock to the earliest pending deadline and fires
// that timer. It reports false if nothing was pending.
func (c *Fake) AdvanceNext() bool {
	c.mu.Lock()
	t := c.earliestLocked()
	if t == nil {
		c.mu.Unlock()
		return false
	}
	c.fireLocked(t)
	c.mu.Unlock()

	t.f()
	return true
}

// Expire marks every timer whose deadline is not after Now() as fired and
// returns their callbacks without running them. It models a scheduler that
// has fired a timer whose callback has not started yet.
func (c *Fake) Expire() []func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fns []func()
	for {
		t := c.earliestLocked()
		if t == nil || t.deadline.After(c.now) {
			return fns
		}
		t.done = true
		c.removeLocked(t)
		fns = append(fns, t.f)
	}
}

// Pending returns the number of scheduled, unfired timers.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// NextDeadline returns the earliest pending deadline.
func (c *Fake) NextDeadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.earliestLocked()
	if t == nil {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Delays returns every delay passed to AfterFunc, in call order.
func (c *Fake) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.delays))
	copy(out, c.delays)
	return out
}

func (c *Fake) fireLocked(t *fakeTimer) {
	if t.deadline.After(c.now) {
		c.now = t.deadline
	}
	t.done = true
	c.removeLocked(t)
}

func (c *Fake) earliestLocked() *fakeTimer {
	var best *fakeTimer
	for _, t := range c.timers {
		if best == nil || t.deadline.Before(best.deadline) ||
			(t.deadline.Equal(best.deadline) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *Fake) removeLocked(t *fakeTimer) {
	for i, p := range c.timers {
		if p == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// Compile-time interface satisfaction check.
var _ Clock = (*Fake)(nil)
