package log

import (
	"time"
)

// Event is a countdown log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the countdown run (UUID). Picker selections made
	// before a run starts carry an empty SessionID.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Type-specific payload (one of these will be set).
	Selection   *SelectionEvent   `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Tick        *TickEvent        `cbor:"12,keyasint,omitempty"`
	Pulse       *PulseEvent       `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySelection indicates a picker edit.
	CategorySelection Category = 0
	// CategoryState indicates a countdown state change.
	CategoryState Category = 1
	// CategoryTick indicates a per-second tick.
	CategoryTick Category = 2
	// CategoryPulse indicates the completion pulse.
	CategoryPulse Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySelection:
		return "SELECTION"
	case CategoryState:
		return "STATE"
	case CategoryTick:
		return "TICK"
	case CategoryPulse:
		return "PULSE"
	default:
		return "UNKNOWN"
	}
}

// Field identifies which part of a selection was edited.
type Field uint8

const (
	// FieldAll indicates the whole selection was replaced.
	FieldAll Field = 0
	// FieldHour indicates the hour was edited.
	FieldHour Field = 1
	// FieldMinute indicates the minute was edited.
	FieldMinute Field = 2
	// FieldSecond indicates the second was edited.
	FieldSecond Field = 3
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldAll:
		return "ALL"
	case FieldHour:
		return "HOUR"
	case FieldMinute:
		return "MINUTE"
	case FieldSecond:
		return "SECOND"
	default:
		return "UNKNOWN"
	}
}

// SelectionEvent captures a picker edit.
type SelectionEvent struct {
	// Field that was edited.
	Field Field `cbor:"1,keyasint"`

	// Value is the new field value (unused for FieldAll).
	Value int `cbor:"2,keyasint,omitempty"`

	// Selection is the resulting H:MM:SS selection.
	Selection string `cbor:"3,keyasint"`
}

// StateChangeEvent captures countdown lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`

	// End is the countdown's end instant.
	End time.Time `cbor:"4,keyasint,omitempty"`

	// Total is the selected duration.
	Total time.Duration `cbor:"5,keyasint,omitempty"`
}

// TickEvent captures one per-second tick.
type TickEvent struct {
	// Seq is the 1-based tick number within the session.
	Seq uint64 `cbor:"1,keyasint"`

	// SecondsLeft is floor((end - now) / 1s) at the tick.
	SecondsLeft int64 `cbor:"2,keyasint"`

	// Lateness is how far after the second boundary the tick ran.
	Lateness time.Duration `cbor:"3,keyasint,omitempty"`
}

// PulseEvent captures the completion pulse.
type PulseEvent struct {
	// Length is how long the pulse lasts.
	Length time.Duration `cbor:"1,keyasint"`
}
