// Package debounce delays propagation of a rapidly changing text value until
// typing pauses.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is used when a non-positive delay is given.
const DefaultDelay = 150 * time.Millisecond

// Field tracks one text input. Input changes on every keystroke; Debounced
// follows after Delay without further keystrokes, at which point the commit
// callback fires once if the value differs from the authoritative value.
type Field struct {
	clock    clockwork.Clock
	delay    time.Duration
	onCommit func(string)

	mu            sync.Mutex
	timer         clockwork.Timer
	pending       bool
	gen           uint64
	input         string
	debounced     string
	authoritative string
}

// Option configures a Field.
type Option func(*Field)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(f *Field) { f.clock = c }
}

// New returns a field holding authoritative. onCommit may be nil.
func New(authoritative string, delay time.Duration, onCommit func(string), opts ...Option) *Field {
	if delay <= 0 {
		delay = DefaultDelay
	}
	f := &Field{
		clock:         clockwork.NewRealClock(),
		delay:         delay,
		onCommit:      onCommit,
		input:         authoritative,
		debounced:     authoritative,
		authoritative: authoritative,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Type records a keystroke and restarts the quiet period.
func (f *Field) Type(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.input = v
	f.pending = true
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = f.clock.AfterFunc(f.delay, func() { f.fire(gen) })
}

// Sync resets the field to an externally changed authoritative value. Any
// pending keystrokes are discarded and no commit is issued.
func (f *Field) Sync(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopLocked()
	f.input = v
	f.debounced = v
	f.authoritative = v
}

// Flush commits a pending value immediately instead of waiting for the timer.
func (f *Field) Flush() {
	f.mu.Lock()
	if !f.pending {
		f.mu.Unlock()
		return
	}
	f.stopLocked()
	f.commitLocked()
}

// Close cancels a pending commit.
func (f *Field) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

// Input is the value as typed so far.
func (f *Field) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Debounced is the last value that survived a quiet period.
func (f *Field) Debounced() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debounced
}

// Value is the latest value the owner should see, committed or not.
func (f *Field) Value() string {
	return f.Input()
}

// Pending reports whether a commit is scheduled.
func (f *Field) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

func (f *Field) fire(gen uint64) {
	f.mu.Lock()
	if gen != f.gen || !f.pending {
		f.mu.Unlock()
		return
	}
	f.pending = false
	f.timer = nil
	f.commitLocked()
}

// commitLocked publishes input and releases the lock before the callback so
// the owner may call back into the field.
func (f *Field) commitLocked() {
	f.pending = false
	f.debounced = f.input
	changed := f.debounced != f.authoritative
	if changed {
		f.authoritative = f.debounced
	}
	v, cb := f.debounced, f.onCommit
	f.mu.Unlock()

	if changed && cb != nil {
		cb(v)
	}
}

func (f *Field) stopLocked() {
	f.gen++
	f.pending = false
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
