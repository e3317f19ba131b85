// Package clock abstracts the two time primitives the countdown core needs:
// reading the current instant and scheduling a cancelable callback.
//
// Production code uses Real. Tests use Fake, which only moves when told to
// and runs due callbacks synchronously on the caller's goroutine.
package clock

import "time"

// Clock provides the current time and a cancelable delay.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// AfterFunc calls f after d has elapsed. A non-positive d fires as
	// soon as possible. The returned Handle cancels the pending call.
	AfterFunc(d time.Duration, f func()) Handle
}

// Handle cancels a callback scheduled with AfterFunc.
type Handle interface {
	// Stop prevents the callback from running. It reports whether the call
	// was stopped; false means it already fired or was already stopped.
	Stop() bool
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// Compile-time interface satisfaction checks.
var (
	_ Clock  = realClock{}
	_ Handle = (*time.Timer)(nil)
)
