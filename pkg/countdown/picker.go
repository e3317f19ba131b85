package countdown

import (
	"sync"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/duration"
	"github.com/countdown-go/countdown/pkg/log"
)

// Picker holds the selection being edited before a countdown starts. Every
// edit replaces the selection with a new duration.Duration value.
type Picker struct {
	mu        sync.Mutex
	selection duration.Duration
	clock     clock.Clock
	events    log.Logger
}

// NewPicker creates a picker starting at initial. A nil logger discards
// selection events and a nil clock uses clock.Real().
func NewPicker(initial duration.Duration, c clock.Clock, events log.Logger) *Picker {
	if c == nil {
		c = clock.Real()
	}
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Picker{selection: initial, clock: c, events: events}
}

// Selection returns the current selection.
func (p *Picker) Selection() duration.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection
}

// CanStart reports whether the selection is non-empty.
func (p *Picker) CanStart() bool {
	return !p.Selection().IsEmpty()
}

// SetHour replaces the hour field.
func (p *Picker) SetHour(h int) duration.Duration {
	return p.update(log.FieldHour, h, func(d duration.Duration) duration.Duration { return d.WithHour(h) })
}

// SetMinute replaces the minute field.
func (p *Picker) SetMinute(m int) duration.Duration {
	return p.update(log.FieldMinute, m, func(d duration.Duration) duration.Duration { return d.WithMinute(m) })
}

// SetSecond replaces the second field.
func (p *Picker) SetSecond(s int) duration.Duration {
	return p.update(log.FieldSecond, s, func(d duration.Duration) duration.Duration { return d.WithSecond(s) })
}

// Set replaces the whole selection.
func (p *Picker) Set(d duration.Duration) duration.Duration {
	return p.update(log.FieldAll, 0, func(duration.Duration) duration.Duration { return d })
}

// Prepare creates an idle countdown from the current selection, so observers
// can be registered before it starts.
func (p *Picker) Prepare(cfg Config) (*Countdown, error) {
	if cfg.EventLogger == nil {
		cfg.EventLogger = p.events
	}
	if cfg.Clock == nil {
		cfg.Clock = p.clock
	}
	return New(p.Selection(), cfg)
}

// Start creates and starts a countdown from the current selection.
func (p *Picker) Start(cfg Config) (*Countdown, error) {
	c, err := p.Prepare(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Picker) update(field log.Field, value int, edit func(duration.Duration) duration.Duration) duration.Duration {
	p.mu.Lock()
	p.selection = edit(p.selection)
	sel := p.selection
	p.mu.Unlock()

	p.events.Log(log.Event{
		Timestamp: p.clock.Now(),
		Category:  log.CategorySelection,
		Selection: &log.SelectionEvent{
			Field:     field,
			Value:     value,
			Selection: sel.String(),
		},
	})
	return sel
}
