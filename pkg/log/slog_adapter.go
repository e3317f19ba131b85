package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes countdown events to an slog.Logger.
// Useful for development when you want to see events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}

	switch {
	case event.Selection != nil:
		attrs = append(attrs,
			slog.String("field", event.Selection.Field.String()),
			slog.String("selection", event.Selection.Selection),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
		if !event.StateChange.End.IsZero() {
			attrs = append(attrs, slog.Time("end", event.StateChange.End))
		}
	case event.Tick != nil:
		attrs = append(attrs,
			slog.Uint64("seq", event.Tick.Seq),
			slog.Int64("seconds_left", event.Tick.SecondsLeft),
			slog.Duration("lateness", event.Tick.Lateness),
		)
	case event.Pulse != nil:
		attrs = append(attrs, slog.Duration("length", event.Pulse.Length))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "countdown", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
