package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, []log.Event{
		{Timestamp: logStart, SessionID: "s1", Category: log.CategoryTick, Tick: &log.TickEvent{Seq: 1, SecondsLeft: 29}},
		{Timestamp: logStart, SessionID: "s1", Category: log.CategoryPulse, Pulse: &log.PulseEvent{Length: time.Second}},
	})
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var lines []log.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e log.Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, e)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Tick == nil || lines[0].Tick.SecondsLeft != 29 {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Pulse == nil || lines[1].Pulse.Length != time.Second {
		t.Errorf("unexpected second line: %+v", lines[1])
	}
}

func TestExportToCSV(t *testing.T) {
	path := recordSessions(t)
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	var ticks int
	for _, r := range records[1:] {
		if r[2] == "TICK" {
			ticks++
			if r[4] == "" {
				t.Errorf("tick row without seconds_left: %v", r)
			}
		}
	}
	// 3 from the finished session, 2 from the cancelled one.
	if ticks != 5 {
		t.Errorf("expected 5 tick rows, got %d", ticks)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)
	err := RunExport(path, "xml", "")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
