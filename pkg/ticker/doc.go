// Package ticker implements a self-rescheduling per-second notifier.
//
// A SecondTicker calls its callback once per whole second, aligned to the
// second grid of a target instant. After every tick the next delay is derived
// from the current time again:
//
//	delay = 1s - ((now - target) mod 1s)
//
// The modulo is floored, so the delay lies in (0s, 1s] whether the target is
// in the past or the future. Slow callbacks and scheduler latency therefore
// shift at most one tick and never accumulate.
//
// # Cancellation
//
// At most one callback is outstanding per ticker. Cancel and SetTarget
// invalidate it through a generation counter that the fired callback checks
// under the ticker lock right before invoking the tick function, so a timer
// that fired after a logical cancel does nothing.
//
// Passing that check commits the tick. The tick function then runs outside
// the lock so it can call Cancel or SetTarget itself. A Cancel from another
// goroutine that lands after the commit does not wait for the committed tick:
// it returns at once, the committed tick runs to completion, and no further
// tick is scheduled. The guarantee after Cancel returns is therefore "no new
// tick is committed", not "no tick function is executing". Consumers that
// must not act on a late tick re-check their own state under their own lock,
// as countdown.Countdown does.
//
// # States
//
//   - INACTIVE: no callback outstanding (new, cancelled, or no target)
//   - SCHEDULED: a callback is outstanding or a tick is running
package ticker
