// Package commands implements the countdown-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// RunView prints every event matching filter in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// ParseCategoryFlag parses a -category value.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "selection", "sel":
		return log.CategorySelection, nil
	case "state":
		return log.CategoryState, nil
	case "tick":
		return log.CategoryTick, nil
	case "pulse":
		return log.CategoryPulse, nil
	default:
		return 0, fmt.Errorf("unknown category: %s (valid: selection, state, tick, pulse)", s)
	}
}

// ParseTimeFlag parses an RFC3339 -time-start/-time-end value. Empty means
// unbounded.
func ParseTimeFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

// formatEvent writes one event followed by a blank line.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timestampLayout)
	session := shortenSessionID(event.SessionID)
	if session == "" {
		session = "-"
	}

	fmt.Fprintf(w, "%s [session:%s] %s\n", ts, session, event.Category)

	switch {
	case event.Selection != nil:
		sel := event.Selection
		if sel.Field == log.FieldAll {
			fmt.Fprintf(w, "  Set: %s\n", sel.Selection)
		} else {
			fmt.Fprintf(w, "  %s = %d -> %s\n", sel.Field, sel.Value, sel.Selection)
		}

	case event.StateChange != nil:
		sc := event.StateChange
		old := sc.OldState
		if old == "" {
			old = "(none)"
		}
		fmt.Fprintf(w, "  %s -> %s\n", old, sc.NewState)
		if sc.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
		}
		if !sc.End.IsZero() {
			fmt.Fprintf(w, "  End: %s\n", sc.End.UTC().Format(timestampLayout))
		}
		if sc.Total > 0 {
			fmt.Fprintf(w, "  Total: %s\n", sc.Total)
		}

	case event.Tick != nil:
		fmt.Fprintf(w, "  #%d  %s left  late %s\n",
			event.Tick.Seq, formatSeconds(event.Tick.SecondsLeft), formatDuration(event.Tick.Lateness))

	case event.Pulse != nil:
		fmt.Fprintf(w, "  Length: %s\n", event.Pulse.Length)
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of a session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatSeconds renders a seconds count as M:SS, clamped at zero.
func formatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// formatDuration renders sub-second durations in the most readable unit.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fus", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	default:
		return d.Round(time.Millisecond).String()
	}
}
