// Command countdown-log views and analyzes countdown event logs.
//
// Event logs are written by countdown when run with -event-log.
//
// Usage:
//
//	countdown-log <command> [flags] <file.clog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show per-session statistics
//
// Examples:
//
//	# View only ticks
//	countdown-log view -category tick run.clog
//
//	# Export to JSONL
//	countdown-log export -format jsonl run.clog
//
//	# Keep one session
//	countdown-log filter -session 4f1c2d9e-... -o one.clog run.clog
//
//	# Statistics as YAML
//	countdown-log stats -format yaml run.clog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/countdown-go/countdown/cmd/countdown-log/commands"
)

const usage = `countdown-log - Countdown Event Log Analyzer

Usage:
  countdown-log <command> [flags] <file.clog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show per-session statistics

Use "countdown-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = runView(args)
	case "export":
		err = runExport(args)
	case "filter":
		err = runFilter(args)
	case "stats":
		err = runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage prints summary and the flags.
func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "countdown-log %s - %s\n\nUsage:\n  countdown-log %s [flags] <file.clog>\n\nFlags:\n",
			name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// logPath parses args and returns the single positional log file.
func logPath(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return "", fmt.Errorf("log file path required")
	}
	return fs.Arg(0), nil
}

func runView(args []string) error {
	fs := newFlagSet("view", "View log file in human-readable format")
	session := fs.String("session", "", "Filter by session ID")
	category := fs.String("category", "", "Filter by category (selection, state, tick, pulse)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	path, err := logPath(fs, args)
	if err != nil {
		return err
	}

	filter, err := commands.FilterOptions{
		SessionID: *session,
		Category:  *category,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	}.Build()
	if err != nil {
		return err
	}

	return commands.RunView(path, filter, os.Stdout)
}

func runExport(args []string) error {
	fs := newFlagSet("export", "Export log file to JSONL or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path, err := logPath(fs, args)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output)
}

func runFilter(args []string) error {
	fs := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID")
	category := fs.String("category", "", "Filter by category (selection, state, tick, pulse)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	path, err := logPath(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("output file (-o) required")
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:    *output,
		SessionID: *session,
		Category:  *category,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
	return nil
}

func runStats(args []string) error {
	fs := newFlagSet("stats", "Show per-session statistics")
	format := fs.String("format", "text", "Output format (text, yaml)")

	path, err := logPath(fs, args)
	if err != nil {
		return err
	}
	return commands.RunStats(path, *format, os.Stdout)
}
