package countdown

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/duration"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/ticker"
)

// Countdown errors.
var (
	ErrEmptyDuration  = errors.New("empty duration")
	ErrAlreadyStarted = errors.New("countdown already started")
)

// DefaultPulseLength is the length of the completion pulse.
const DefaultPulseLength = 500 * time.Millisecond

// Config holds countdown configuration. The zero value is usable.
type Config struct {
	// Clock defaults to clock.Real().
	Clock clock.Clock

	// EventLogger receives selection, state, tick and pulse events.
	EventLogger log.Logger

	// Logger is the operational logger. Defaults to discarding.
	Logger *slog.Logger

	// PulseLength is reported in the completion PULSE event.
	PulseLength time.Duration

	// SessionID overrides the generated UUID.
	SessionID string
}

// Countdown runs one selection down to zero.
type Countdown struct {
	mu sync.Mutex

	id        string
	selection duration.Duration
	clock     clock.Clock
	ticker    *ticker.SecondTicker
	events    log.Logger
	logger    *slog.Logger
	pulse     time.Duration

	state    State
	end      time.Time
	now      time.Time
	ticks    uint64
	lateness time.Duration
	done     chan struct{}

	onTick   []func(Snapshot)
	onFinish []func(Snapshot)
}

// New creates an idle countdown for d. An empty selection cannot be started
// and is rejected with ErrEmptyDuration.
func New(d duration.Duration, cfg Config) (*Countdown, error) {
	if d.IsEmpty() {
		return nil, ErrEmptyDuration
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.EventLogger == nil {
		cfg.EventLogger = log.NoopLogger{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.PulseLength <= 0 {
		cfg.PulseLength = DefaultPulseLength
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}

	return &Countdown{
		id:        cfg.SessionID,
		selection: d,
		clock:     cfg.Clock,
		ticker:    ticker.New(cfg.Clock),
		events:    cfg.EventLogger,
		logger:    cfg.Logger.With("session_id", cfg.SessionID),
		pulse:     cfg.PulseLength,
		state:     StateIdle,
		done:      make(chan struct{}),
	}, nil
}

// ID returns the session ID.
func (c *Countdown) ID() string {
	return c.id
}

// Selection returns the duration the countdown was created with.
func (c *Countdown) Selection() duration.Duration {
	return c.selection
}

// OnTick registers fn to run after every tick, including the final one.
// Observers run on the ticker goroutine and must not block.
func (c *Countdown) OnTick(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = append(c.onTick, fn)
}

// OnFinish registers fn to run once when the end instant is reached. It does
// not run on Cancel.
func (c *Countdown) OnFinish(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFinish = append(c.onFinish, fn)
}

// Start fixes the end instant and begins ticking.
func (c *Countdown) Start() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}

	now := c.clock.Now()
	c.now = now
	c.end = c.selection.EndInstant(now)
	c.state = StateRunning
	c.ticker.Start(c.end, c.handleTick)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("countdown started", "selection", c.selection.String(), "end", snap.End)
	c.logState(StateIdle, StateRunning, "", snap)
	return nil
}

// Cancel stops the countdown. It is a no-op once the countdown has finished
// or was already cancelled.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	if c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	old := c.state
	c.ticker.Cancel()
	c.state = StateCancelled
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("countdown cancelled", "seconds_left", snap.SecondsLeft())
	c.logState(old, StateCancelled, "cancelled", snap)
	close(c.done)
}

// Snapshot returns the current countdown state.
func (c *Countdown) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the lifecycle state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the countdown has finished or been cancelled and every
// event and observer for that transition has been delivered.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the countdown reaches a terminal state or ctx is done,
// and returns the final state.
func (c *Countdown) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.done:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

// handleTick is the ticker callback.
func (c *Countdown) handleTick() {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return
	}

	raw := c.clock.Now()
	c.lateness = gridOffset(raw, c.end)
	c.now = raw.Add(-c.lateness)
	c.ticks++

	snap := c.snapshotLocked()
	finished := snap.SecondsLeft() <= 0
	if finished {
		c.ticker.Cancel()
		c.state = StateFinished
		snap.State = StateFinished
	}

	onTick := slices.Clone(c.onTick)
	var onFinish []func(Snapshot)
	if finished {
		onFinish = slices.Clone(c.onFinish)
	}
	c.mu.Unlock()

	c.events.Log(log.Event{
		Timestamp: raw,
		SessionID: c.id,
		Category:  log.CategoryTick,
		Tick: &log.TickEvent{
			Seq:         snap.Ticks,
			SecondsLeft: snap.SecondsLeft(),
			Lateness:    snap.Lateness,
		},
	})
	for _, fn := range onTick {
		fn(snap)
	}

	if !finished {
		return
	}

	c.logger.Info("countdown finished", "ticks", snap.Ticks)
	c.logState(StateRunning, StateFinished, "end reached", snap)
	c.events.Log(log.Event{
		Timestamp: raw,
		SessionID: c.id,
		Category:  log.CategoryPulse,
		Pulse:     &log.PulseEvent{Length: c.pulse},
	})
	for _, fn := range onFinish {
		fn(snap)
	}
	close(c.done)
}

func (c *Countdown) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: c.id,
		State:     c.state,
		End:       c.end,
		Now:       c.now,
		Total:     c.selection.Std(),
		Ticks:     c.ticks,
		Lateness:  c.lateness,
	}
}

func (c *Countdown) logState(from, to State, reason string, snap Snapshot) {
	c.events.Log(log.Event{
		Timestamp: c.clock.Now(),
		SessionID: c.id,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
			End:      snap.End,
			Total:    snap.Total,
		},
	})
}
