package commands

import (
	"fmt"
	"io"

	"github.com/countdown-go/countdown/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	SessionID string
	TimeStart string
	TimeEnd   string
	Category  string
}

// Build converts the string options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{SessionID: o.SessionID}

	var err error
	if filter.TimeStart, err = ParseTimeFlag("time-start", o.TimeStart); err != nil {
		return log.Filter{}, err
	}
	if filter.TimeEnd, err = ParseTimeFlag("time-end", o.TimeEnd); err != nil {
		return log.Filter{}, err
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// RunFilter copies matching events from path into a new log file and
// returns how many were written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		out.Log(event)
		count++
	}

	if err := out.Close(); err != nil {
		return count, fmt.Errorf("failed to close output: %w", err)
	}
	if n := out.Dropped(); n > 0 {
		return count, fmt.Errorf("failed to write %d of %d events", n, count)
	}
	return count, nil
}
