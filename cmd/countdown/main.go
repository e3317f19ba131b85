// Command countdown is a terminal countdown timer.
//
// It picks an hours/minutes/seconds duration, counts it down one second at a
// time against a fixed end instant, and rings the bell when it finishes.
//
// Usage:
//
//	countdown [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-duration string    Initial selection, H:MM:SS or 1h30m (default "0:00:30")
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-event-log string   Write CBOR events to this file
//	-bell               Ring the terminal bell when finished (default true)
//	-interactive        Enable interactive picker mode
//
// Examples:
//
//	# Count down five minutes right away
//	countdown -duration 5:00
//
//	# Pick the duration interactively and record events
//	countdown -interactive -event-log /tmp/countdown.clog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/countdown-go/countdown/cmd/countdown/interactive"
	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/duration"
	cdlog "github.com/countdown-go/countdown/pkg/log"
)

// Options holds the command-line flags.
type Options struct {
	ConfigFile  string
	Duration    string
	LogLevel    string
	EventLog    string
	Bell        bool
	Interactive bool
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&opts.Duration, "duration", duration.Default.String(), "Initial selection, H:MM:SS or 1h30m")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.EventLog, "event-log", "", "Write CBOR events to this file")
	flag.BoolVar(&opts.Bell, "bell", true, "Ring the terminal bell when finished")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Enable interactive picker mode")
}

func main() {
	flag.Parse()
	os.Exit(run(opts, setFlags(), os.Stdout))
}

// run executes the command and returns the exit code. Output that is not
// routed through readline goes to stdout.
func run(o Options, set map[string]bool, stdout io.Writer) int {
	cfg, err := resolveConfig(o, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := stdout
	var shell *interactive.Shell
	if o.Interactive {
		shell, err = interactive.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create interactive shell: %v\n", err)
			return 1
		}
		// Route output through readline to avoid interfering with input
		out = shell.Stdout()
	}

	logger := setupLogging(out, cfg.Level())

	events, closeEvents, err := setupEventLog(logger, cfg.EventLog)
	if err != nil {
		logger.Error("failed to open event log", "path", cfg.EventLog, "error", err)
		return 1
	}
	defer closeEvents()

	picker := countdown.NewPicker(cfg.Default, nil, events)
	cdCfg := countdown.Config{
		EventLogger: events,
		Logger:      logger,
		PulseLength: cfg.Pulse,
	}
	session := interactive.NewSession(out, picker, cdCfg, cfg.Bell)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if shell != nil {
		go shell.Run(ctx, cancel, session)

		select {
		case sig := <-sigCh:
			logger.Info("received signal", "signal", sig)
			session.Exec("cancel")
		case <-ctx.Done():
			// Quit command or EOF
		}
		return 0
	}

	session.Exec("start")
	c := session.Active()
	if c == nil {
		return 1
	}

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal", "signal", sig)
			c.Cancel()
		case <-ctx.Done():
		}
	}()

	if state, _ := c.Wait(ctx); state != countdown.StateFinished {
		return 130
	}
	return 0
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// resolveConfig loads the config file, if any, and applies flags given on the
// command line on top of it.
func resolveConfig(o Options, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		loaded, err := config.Load(o.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if set["duration"] {
		d, err := duration.Parse(o.Duration)
		if err != nil {
			return config.Config{}, fmt.Errorf("-duration: %w", err)
		}
		cfg.Default = d
	}
	if set["log-level"] {
		cfg.LogLevel = o.LogLevel
	}
	if set["event-log"] {
		cfg.EventLog = o.EventLog
	}
	if set["bell"] {
		cfg.Bell = o.Bell
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupLogging(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupEventLog combines console event output with the optional CBOR file.
func setupEventLog(logger *slog.Logger, path string) (cdlog.Logger, func(), error) {
	console := cdlog.NewSlogAdapter(logger)
	if path == "" {
		return console, func() {}, nil
	}

	file, err := cdlog.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("recording events", "path", path)

	closeFn := func() {
		if err := file.Close(); err != nil {
			logger.Warn("failed to close event log", "error", err)
		}
	}
	return cdlog.NewMultiLogger(console, file), closeFn, nil
}
