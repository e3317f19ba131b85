// Package log provides structured event logging for countdowns.
//
// Each countdown run is a session identified by a UUID. The countdown core
// emits an Event for every picker selection, state change, tick and
// completion pulse. This is separate from operational logging (slog): the
// event log is a complete machine-readable trace of a run.
//
// # Basic Usage
//
//	// Console: events go to slog at Debug level
//	opts.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// File: CBOR stream
//	opts.EventLogger, _ = log.NewFileLogger("/tmp/countdown.clog")
//
//	// Both
//	opts.EventLogger = log.NewMultiLogger(a, b)
//
// # File Format
//
// Log files are a concatenated stream of CBOR-encoded events with integer
// keys, conventionally with the .clog extension. The countdown-log tool
// views, exports and summarizes them.
package log
