package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func testEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, Category: CategorySelection, Selection: &SelectionEvent{Field: FieldSecond, Value: 30, Selection: "0:00:30"}},
		{Timestamp: base.Add(time.Second), SessionID: "s-1", Category: CategoryState, StateChange: &StateChangeEvent{OldState: "IDLE", NewState: "RUNNING"}},
		{Timestamp: base.Add(2 * time.Second), SessionID: "s-1", Category: CategoryTick, Tick: &TickEvent{Seq: 1, SecondsLeft: 29}},
		{Timestamp: base.Add(3 * time.Second), SessionID: "s-2", Category: CategoryTick, Tick: &TickEvent{Seq: 1, SecondsLeft: 9}},
		{Timestamp: base.Add(4 * time.Second), SessionID: "s-2", Category: CategoryPulse, Pulse: &PulseEvent{Length: 500 * time.Millisecond}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, testEvents(base))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 5 {
		t.Fatalf("got %d events, want 5", len(read))
	}
	if read[0].Selection == nil || read[0].Selection.Selection != "0:00:30" {
		t.Errorf("first event: %+v", read[0])
	}
	if read[4].Pulse == nil || read[4].Pulse.Length != 500*time.Millisecond {
		t.Errorf("last event: %+v", read[4])
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, testEvents(base))

	tick := CategoryTick
	start := base.Add(2 * time.Second)
	end := base.Add(4 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 5},
		{"session", Filter{SessionID: "s-1"}, 2},
		{"category", Filter{Category: &tick}, 2},
		{"session and category", Filter{SessionID: "s-2", Category: &tick}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"no match", Filter{SessionID: "nope"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := ReadAll(path, tt.filter)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.clog")); err == nil {
		t.Error("expected error for missing file")
	}
}
