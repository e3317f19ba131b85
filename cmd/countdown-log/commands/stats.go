package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/countdown-go/countdown/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int             `yaml:"total_events"`
	EventsByCategory map[string]int  `yaml:"events_by_category"`
	Selections       int             `yaml:"selections"`
	Start            time.Time       `yaml:"start,omitempty"`
	End              time.Time       `yaml:"end,omitempty"`
	Sessions         []*SessionStats `yaml:"sessions"`

	bySession map[string]*SessionStats
}

// SessionStats holds statistics for a single countdown run.
type SessionStats struct {
	ID          string        `yaml:"id"`
	Total       time.Duration `yaml:"total"`
	FinalState  string        `yaml:"final_state"`
	Ticks       int           `yaml:"ticks"`
	SecondsLeft int64         `yaml:"seconds_left"`
	MaxLateness time.Duration `yaml:"max_lateness"`
	AvgLateness time.Duration `yaml:"avg_lateness"`
	Started     time.Time     `yaml:"started"`
	Ended       time.Time     `yaml:"ended,omitempty"`

	latenessSum time.Duration
}

// RunStats analyzes the log file and writes statistics as text or yaml.
func RunStats(path, format string, w io.Writer) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format: %s (supported: text, yaml)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	stats.finish()

	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(stats); err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		return enc.Close()
	}
	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByCategory: make(map[string]int),
		bySession:        make(map[string]*SessionStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category.String()]++

	if s.Start.IsZero() || event.Timestamp.Before(s.Start) {
		s.Start = event.Timestamp
	}
	if event.Timestamp.After(s.End) {
		s.End = event.Timestamp
	}

	if event.Selection != nil {
		s.Selections++
	}
	if event.SessionID == "" {
		return
	}

	sess, ok := s.bySession[event.SessionID]
	if !ok {
		sess = &SessionStats{ID: event.SessionID, Started: event.Timestamp}
		s.bySession[event.SessionID] = sess
		s.Sessions = append(s.Sessions, sess)
	}

	switch {
	case event.StateChange != nil:
		sess.FinalState = event.StateChange.NewState
		if event.StateChange.Total > 0 {
			sess.Total = event.StateChange.Total
		}
		if event.StateChange.NewState == "FINISHED" || event.StateChange.NewState == "CANCELLED" {
			sess.Ended = event.Timestamp
		}
	case event.Tick != nil:
		sess.Ticks++
		sess.SecondsLeft = event.Tick.SecondsLeft
		sess.latenessSum += event.Tick.Lateness
		if event.Tick.Lateness > sess.MaxLateness {
			sess.MaxLateness = event.Tick.Lateness
		}
	}
}

func (s *Stats) finish() {
	for _, sess := range s.Sessions {
		if sess.Ticks > 0 {
			sess.AvgLateness = sess.latenessSum / time.Duration(sess.Ticks)
		}
	}
	sort.SliceStable(s.Sessions, func(i, j int) bool {
		return s.Sessions[i].Started.Before(s.Sessions[j].Started)
	})
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Countdown Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.Start.Format(time.RFC3339),
			stats.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.End.Sub(stats.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategorySelection, log.CategoryState, log.CategoryTick, log.CategoryPulse} {
		if count := stats.EventsByCategory[cat.String()]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	for _, sess := range stats.Sessions {
		state := sess.FinalState
		if state == "" {
			state = "UNKNOWN"
		}
		fmt.Fprintf(w, "  [%s] %s %s, %d ticks\n", shortenSessionID(sess.ID), sess.Total, state, sess.Ticks)
		if sess.Ticks > 0 {
			fmt.Fprintf(w, "           Lateness: max %s, avg %s\n",
				formatDuration(sess.MaxLateness), formatDuration(sess.AvgLateness))
		}
	}
}
