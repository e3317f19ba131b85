package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/duration"
	"github.com/countdown-go/countdown/pkg/log"
)

var logStart = time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// recordSessions runs a finished 3s countdown and a 10s countdown cancelled
// after two ticks, logging both to a file.
func recordSessions(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Close()

	fc := clock.NewFake(logStart)
	picker := countdown.NewPicker(duration.Default, fc, logger)
	picker.SetSecond(3)

	first, err := picker.Start(countdown.Config{SessionID: "aaaaaaaa-1111"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	fc.Advance(3 * time.Second)
	if first.State() != countdown.StateFinished {
		t.Fatalf("first session state = %s", first.State())
	}

	picker.Set(duration.New(0, 0, 10))
	second, err := picker.Start(countdown.Config{SessionID: "bbbbbbbb-2222"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	fc.Advance(2 * time.Second)
	second.Cancel()

	return path
}
