package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/duration"
	"github.com/countdown-go/countdown/pkg/log"
)

var start = time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

// stubEventLogger records events through testify's mock.
type stubEventLogger struct{ mock.Mock }

func (s *stubEventLogger) Log(e log.Event) { s.Called(e) }

func (s *stubEventLogger) categories() []log.Category {
	var out []log.Category
	for _, call := range s.Calls {
		out = append(out, call.Arguments.Get(0).(log.Event).Category)
	}
	return out
}

func newTestCountdown(t *testing.T, d duration.Duration) (*Countdown, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(start)
	c, err := New(d, Config{Clock: fc, SessionID: "test-session"})
	require.NoError(t, err)
	return c, fc
}

// runToEnd fires ticks until the countdown leaves RUNNING.
func runToEnd(t *testing.T, c *Countdown, fc *clock.Fake, limit int) {
	t.Helper()
	for i := 0; i < limit && c.State() == StateRunning; i++ {
		require.True(t, fc.AdvanceNext(), "no tick pending while running")
	}
}

func TestNewRejectsEmptyDuration(t *testing.T) {
	c, err := New(duration.New(0, 0, 0), Config{})
	assert.ErrorIs(t, err, ErrEmptyDuration)
	assert.Nil(t, c)
}

func TestNewDefaults(t *testing.T) {
	c, err := New(duration.Default, Config{})
	require.NoError(t, err)

	assert.Len(t, c.ID(), 36, "UUID session id")
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, duration.Default, c.Selection())
	assert.Equal(t, DefaultPulseLength, c.pulse)
}

func TestThirtySecondScenario(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 0, 30))

	var left []int64
	c.OnTick(func(s Snapshot) { left = append(left, s.SecondsLeft()) })
	finished := 0
	c.OnFinish(func(Snapshot) { finished++ })

	require.NoError(t, c.Start())
	assert.Equal(t, start.Add(30000*time.Millisecond), c.Snapshot().End)
	assert.Equal(t, int64(30), c.Snapshot().SecondsLeft())

	runToEnd(t, c, fc, 40)

	snap := c.Snapshot()
	assert.Equal(t, uint64(30), snap.Ticks)
	assert.Equal(t, int64(0), snap.SecondsLeft())
	assert.Equal(t, StateFinished, snap.State)
	assert.Equal(t, 0, fc.Pending(), "no 31st callback outstanding")
	assert.Equal(t, 1, finished)

	require.Len(t, left, 30)
	for i, v := range left {
		assert.Equal(t, int64(29-i), v)
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestLateTickReportsItsBoundary(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 0, 30))
	require.NoError(t, c.Start())

	fc.Set(start.Add(time.Second + 40*time.Millisecond))
	fc.Advance(0)

	snap := c.Snapshot()
	assert.Equal(t, int64(29), snap.SecondsLeft())
	assert.Equal(t, 40*time.Millisecond, snap.Lateness)
	assert.Equal(t, start.Add(time.Second), snap.Now)

	next, ok := fc.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, start.Add(2*time.Second), next, "next tick back on the grid")
}

func TestCatchUpAfterSleep(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 0, 10))
	require.NoError(t, c.Start())

	// The process was suspended well past the end instant.
	fc.Set(start.Add(25 * time.Second))
	fc.Advance(0)

	snap := c.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.Equal(t, uint64(1), snap.Ticks, "one catch-up tick")
	assert.Equal(t, int64(-15), snap.SecondsLeft())
	assert.Equal(t, "0:00", snap.Readout())
	assert.Equal(t, 0, fc.Pending())
}

func TestCancelStopsTicker(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 1, 0))
	c.OnFinish(func(Snapshot) { t.Error("OnFinish after Cancel") })

	require.NoError(t, c.Start())
	for i := 0; i < 5; i++ {
		require.True(t, fc.AdvanceNext())
	}

	c.Cancel()
	c.Cancel()

	assert.Equal(t, StateCancelled, c.State())
	assert.Equal(t, 0, fc.Pending())
	assert.Equal(t, int64(55), c.Snapshot().SecondsLeft())

	fc.Advance(2 * time.Minute)
	assert.Equal(t, uint64(5), c.Snapshot().Ticks)

	state, err := c.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, StateCancelled, state)
}

func TestCancelBeforeStart(t *testing.T) {
	c, _ := newTestCountdown(t, duration.Default)

	c.Cancel()
	assert.Equal(t, StateCancelled, c.State())
	assert.ErrorIs(t, c.Start(), ErrAlreadyStarted)
}

func TestCancelAfterFinishIsNoop(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 0, 2))
	require.NoError(t, c.Start())
	runToEnd(t, c, fc, 5)

	c.Cancel()
	assert.Equal(t, StateFinished, c.State())
}

func TestStartTwice(t *testing.T) {
	c, _ := newTestCountdown(t, duration.Default)

	require.NoError(t, c.Start())
	assert.ErrorIs(t, c.Start(), ErrAlreadyStarted)
}

func TestCancelFromTickObserver(t *testing.T) {
	c, fc := newTestCountdown(t, duration.New(0, 0, 30))
	c.OnTick(func(s Snapshot) {
		if s.Ticks == 3 {
			c.Cancel()
		}
	})

	require.NoError(t, c.Start())
	fc.Advance(10 * time.Second)

	assert.Equal(t, StateCancelled, c.State())
	assert.Equal(t, uint64(3), c.Snapshot().Ticks)
	assert.Equal(t, 0, fc.Pending())
}

func TestWaitHonoursContext(t *testing.T) {
	c, _ := newTestCountdown(t, duration.Default)
	require.NoError(t, c.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateRunning, state)
}

func TestEventSequence(t *testing.T) {
	events := &stubEventLogger{}
	events.On("Log", mock.Anything).Return()

	fc := clock.NewFake(start)
	c, err := New(duration.New(0, 0, 3), Config{
		Clock:       fc,
		EventLogger: events,
		PulseLength: 750 * time.Millisecond,
		SessionID:   "sess",
	})
	require.NoError(t, err)
	require.NoError(t, c.Start())
	runToEnd(t, c, fc, 5)

	assert.Equal(t, []log.Category{
		log.CategoryState,
		log.CategoryTick,
		log.CategoryTick,
		log.CategoryTick,
		log.CategoryState,
		log.CategoryPulse,
	}, events.categories())

	events.AssertCalled(t, "Log", mock.MatchedBy(func(e log.Event) bool {
		return e.StateChange != nil && e.StateChange.NewState == "RUNNING" &&
			e.StateChange.End.Equal(start.Add(3*time.Second)) && e.SessionID == "sess"
	}))
	events.AssertCalled(t, "Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Tick != nil && e.Tick.Seq == 3 && e.Tick.SecondsLeft == 0
	}))
	events.AssertCalled(t, "Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Pulse != nil && e.Pulse.Length == 750*time.Millisecond
	}))
}

func TestRealClockShortCountdown(t *testing.T) {
	if testing.Short() {
		t.Skip("uses wall clock")
	}

	c, err := New(duration.New(0, 0, 1), Config{})
	require.NoError(t, err)

	var mu sync.Mutex
	var final Snapshot
	c.OnFinish(func(s Snapshot) {
		mu.Lock()
		final = s
		mu.Unlock()
	})
	require.NoError(t, c.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	state, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateFinished, state)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, StateFinished, final.State, "OnFinish ran before Wait returned")
	require.False(t, final.End.IsZero())
	assert.Equal(t, int64(0), final.SecondsLeft())
	assert.False(t, time.Now().Before(final.End), "finished no earlier than the end instant")
}

// doneWatcher records, per logged event, whether Done was already closed.
type doneWatcher struct {
	c      *Countdown
	events []log.Event
	closed []bool
}

func (w *doneWatcher) Log(e log.Event) {
	w.events = append(w.events, e)
	w.closed = append(w.closed, isClosed(w.c.Done()))
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestDoneClosesAfterFinishDelivered(t *testing.T) {
	fc := clock.NewFake(start)
	w := &doneWatcher{}
	c, err := New(duration.New(0, 0, 2), Config{Clock: fc, EventLogger: w})
	require.NoError(t, err)
	w.c = c

	var tickSawDone, finishSawDone []bool
	c.OnTick(func(Snapshot) { tickSawDone = append(tickSawDone, isClosed(c.Done())) })
	c.OnFinish(func(Snapshot) { finishSawDone = append(finishSawDone, isClosed(c.Done())) })

	require.NoError(t, c.Start())
	runToEnd(t, c, fc, 5)

	assert.True(t, isClosed(c.Done()))
	assert.Equal(t, []bool{false, false}, tickSawDone)
	assert.Equal(t, []bool{false}, finishSawDone)

	require.NotEmpty(t, w.events)
	last := w.events[len(w.events)-1]
	assert.Equal(t, log.CategoryPulse, last.Category, "PULSE logged before Done")
	for i, closed := range w.closed {
		assert.False(t, closed, "event %d (%s) logged after Done closed", i, w.events[i].Category)
	}
}

func TestDoneClosesAfterCancelLogged(t *testing.T) {
	fc := clock.NewFake(start)
	w := &doneWatcher{}
	c, err := New(duration.New(0, 0, 10), Config{Clock: fc, EventLogger: w})
	require.NoError(t, err)
	w.c = c

	require.NoError(t, c.Start())
	fc.Advance(time.Second)
	c.Cancel()

	assert.True(t, isClosed(c.Done()))
	last := w.events[len(w.events)-1]
	require.NotNil(t, last.StateChange)
	assert.Equal(t, "CANCELLED", last.StateChange.NewState)
	assert.False(t, w.closed[len(w.closed)-1], "CANCELLED logged before Done")
}
