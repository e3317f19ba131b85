package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parsing errors.
var (
	ErrNegative      = errors.New("negative duration")
	ErrInvalidFormat = errors.New("invalid duration format")
)

// Default is the selection a picker starts with.
var Default = Duration{Seconds: 30}

// Duration is an hours/minutes/seconds selection.
type Duration struct {
	Hours   int `yaml:"hours"`
	Minutes int `yaml:"minutes"`
	Seconds int `yaml:"seconds"`
}

// New returns a Duration with negative fields clamped to zero.
func New(hours, minutes, seconds int) Duration {
	return Duration{
		Hours:   nonNegative(hours),
		Minutes: nonNegative(minutes),
		Seconds: nonNegative(seconds),
	}
}

// WithHour returns a copy of d with Hours replaced.
func (d Duration) WithHour(h int) Duration {
	d.Hours = nonNegative(h)
	return d
}

// WithMinute returns a copy of d with Minutes replaced.
func (d Duration) WithMinute(m int) Duration {
	d.Minutes = nonNegative(m)
	return d
}

// WithSecond returns a copy of d with Seconds replaced.
func (d Duration) WithSecond(s int) Duration {
	d.Seconds = nonNegative(s)
	return d
}

// IsEmpty reports whether all fields are zero. An empty selection cannot be
// started.
func (d Duration) IsEmpty() bool {
	return d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// TotalSeconds returns (Hours*60 + Minutes)*60 + Seconds.
func (d Duration) TotalSeconds() int64 {
	return (int64(d.Hours)*60+int64(d.Minutes))*60 + int64(d.Seconds)
}

// Std returns the selection as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}

// EndInstant returns now + TotalSeconds.
func (d Duration) EndInstant(now time.Time) time.Time {
	return now.Add(d.Std())
}

// String renders the selection as H:MM:SS.
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}

// FromStd converts a time.Duration, truncated to whole seconds, into a
// normalized Duration.
func FromStd(td time.Duration) (Duration, error) {
	if td < 0 {
		return Duration{}, ErrNegative
	}
	secs := int64(td / time.Second)
	return Duration{
		Hours:   int(secs / 3600),
		Minutes: int(secs % 3600 / 60),
		Seconds: int(secs % 60),
	}, nil
}

// Parse accepts H:MM:SS, M:SS, a bare number of seconds, or Go duration
// syntax such as "1h30m". Colon-separated fields are taken as-is and are not
// normalized.
func Parse(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, ErrInvalidFormat
	}

	if strings.ContainsAny(s, "hms") {
		td, err := time.ParseDuration(s)
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return FromStd(td)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	// Right-align: the last field is always seconds.
	var fields [3]int
	offset := 3 - len(parts)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		if n < 0 {
			return Duration{}, ErrNegative
		}
		fields[offset+i] = n
	}

	return Duration{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML accepts any scalar form Parse understands, including bare
// integers such as 30, or a mapping with hours, minutes and seconds keys.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.UnmarshalText([]byte(n.Value))
	case yaml.MappingNode:
		var fields struct {
			Hours   int `yaml:"hours"`
			Minutes int `yaml:"minutes"`
			Seconds int `yaml:"seconds"`
		}
		if err := n.Decode(&fields); err != nil {
			return err
		}
		if fields.Hours < 0 || fields.Minutes < 0 || fields.Seconds < 0 {
			return ErrNegative
		}
		*d = Duration(fields)
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected scalar or mapping", ErrInvalidFormat, n.Line)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
