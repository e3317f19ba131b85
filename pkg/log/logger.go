package log

// Logger receives countdown events. Pass nil or NoopLogger to disable
// logging.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and should
	// not block: ticks are delivered from the ticker goroutine.
	Log(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
