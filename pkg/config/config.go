// Package config loads countdown settings from a YAML file.
//
// Example file:
//
//	default: "0:05:00"   # initial picker selection
//	pulse: 500ms         # completion pulse length
//	event_log: /tmp/countdown.clog
//	log_level: debug
//	bell: true
//
// Keys missing from the file keep their Default values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/countdown-go/countdown/pkg/duration"
)

// Validation errors.
var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidPulse    = errors.New("invalid pulse length")
)

// Config holds countdown settings.
type Config struct {
	// Default is the initial picker selection.
	Default duration.Duration `yaml:"default"`

	// Pulse is the completion pulse length.
	Pulse time.Duration `yaml:"pulse"`

	// EventLog is the CBOR event log path. Empty disables the file log.
	EventLog string `yaml:"event_log"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Bell rings the terminal bell on completion.
	Bell bool `yaml:"bell"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Default:  duration.Default,
		Pulse:    500 * time.Millisecond,
		LogLevel: "info",
		Bell:     true,
	}
}

// LoadError describes a configuration file that could not be loaded.
type LoadError struct {
	// File is the path that failed to load (empty for in-memory data).
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse overlays YAML data onto Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Pulse < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPulse, c.Pulse)
	}
	return nil
}

// Level returns the slog level for LogLevel, defaulting to Info.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug/info/warn/error to an slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
