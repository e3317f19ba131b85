// Package interactive provides the interactive command-line interface
// for the countdown timer.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/duration"
)

// EndTimeLayout formats the end instant shown next to the readout.
const EndTimeLayout = "15:04:05"

// Session executes picker and countdown commands and prints their results.
// It holds no terminal state so it can be driven from tests.
type Session struct {
	picker *countdown.Picker
	cfg    countdown.Config
	bell   bool

	mu     sync.Mutex
	active *countdown.Countdown

	outMu sync.Mutex
	out   io.Writer
}

// NewSession creates a session writing to out. cfg is the template used for
// every countdown the session starts.
func NewSession(out io.Writer, picker *countdown.Picker, cfg countdown.Config, bell bool) *Session {
	return &Session{
		picker: picker,
		cfg:    cfg,
		bell:   bell,
		out:    out,
	}
}

// Active returns the most recently started countdown, or nil.
func (s *Session) Active() *countdown.Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Exec runs one command line. It returns true when the user asked to quit.
func (s *Session) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.PrintHelp()

	case "hour", "h":
		s.cmdField(cmd, args, s.picker.SetHour)

	case "minute", "m":
		s.cmdField(cmd, args, s.picker.SetMinute)

	case "second", "s":
		s.cmdField(cmd, args, s.picker.SetSecond)

	case "set":
		s.cmdSet(args)

	case "start":
		s.cmdStart()

	case "cancel", "back":
		s.cmdCancel()

	case "status", "st":
		s.cmdStatus()

	case "quit", "exit", "q":
		s.cmdCancel()
		return true

	default:
		s.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

// PrintHelp prints the command summary.
func (s *Session) PrintHelp() {
	s.printf(`
Countdown Commands:
  Picker:
    hour <n>           - Set the hour field
    minute <n>         - Set the minute field
    second <n>         - Set the second field
    set <H:MM:SS>      - Set the whole selection (also accepts 1h30m)

  Countdown:
    start              - Start a countdown from the selection
    cancel             - Cancel the running countdown
    status             - Show selection or countdown status

  Other:
    help               - Show this help
    quit               - Exit
`)
}

func (s *Session) cmdField(name string, args []string, set func(int) duration.Duration) {
	if s.running() {
		s.printf("Countdown running; cancel it before editing\n")
		return
	}
	if len(args) != 1 {
		s.printf("Usage: %s <n>\n", name)
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v < 0 {
		s.printf("Invalid value: %s\n", args[0])
		return
	}
	s.printf("Selection: %s\n", set(v))
}

func (s *Session) cmdSet(args []string) {
	if s.running() {
		s.printf("Countdown running; cancel it before editing\n")
		return
	}
	if len(args) != 1 {
		s.printf("Usage: set <H:MM:SS>\n")
		return
	}
	d, err := duration.Parse(args[0])
	if err != nil {
		s.printf("Invalid duration: %v\n", err)
		return
	}
	s.printf("Selection: %s\n", s.picker.Set(d))
}

func (s *Session) cmdStart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && !s.active.State().Terminal() {
		s.printf("Countdown already running\n")
		return
	}

	c, err := s.picker.Prepare(s.cfg)
	if err != nil {
		if errors.Is(err, countdown.ErrEmptyDuration) {
			s.printf("Selection is 0:00:00; pick a duration first\n")
			return
		}
		s.printf("Failed to start: %v\n", err)
		return
	}
	c.OnTick(s.printTick)
	c.OnFinish(s.printFinish)
	if err := c.Start(); err != nil {
		s.printf("Failed to start: %v\n", err)
		return
	}
	s.active = c

	snap := c.Snapshot()
	s.printf("Started %s, ends at %s\n", c.Selection(), snap.End.Local().Format(EndTimeLayout))
}

func (s *Session) cmdCancel() {
	s.mu.Lock()
	c := s.active
	s.mu.Unlock()

	if c == nil || c.State().Terminal() {
		return
	}
	c.Cancel()
	s.printf("Cancelled at %s\n", c.Snapshot().Readout())
}

func (s *Session) cmdStatus() {
	s.printf("Selection: %s\n", s.picker.Selection())

	c := s.Active()
	if c == nil {
		return
	}
	snap := c.Snapshot()
	s.printf("Countdown: %s\n", snap.State)
	s.printf("  Remaining: %s\n", snap.Readout())
	s.printf("  Progress:  %.0f%%\n", snap.Progress()*100)
	s.printf("  Ends at:   %s\n", snap.End.Local().Format(EndTimeLayout))
	s.printf("  Ticks:     %d\n", snap.Ticks)
}

func (s *Session) running() bool {
	c := s.Active()
	return c != nil && c.State() == countdown.StateRunning
}

func (s *Session) printTick(snap countdown.Snapshot) {
	s.printf("%s  (ends %s)\n", snap.Readout(), snap.End.Local().Format(EndTimeLayout))
}

func (s *Session) printFinish(countdown.Snapshot) {
	if s.bell {
		s.printf("\a")
	}
	s.printf("Finished\n")
}

func (s *Session) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
