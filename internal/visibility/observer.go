// Package visibility decides when a list element has actually been seen:
// at least half of it on screen, continuously, for a minimum dwell time.
// It is decoupled from what "seen" triggers; callers supply the callback.
package visibility

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/logging"
)

const (
	// DefaultDwell is how long an element must stay visible before it
	// counts as seen. Short enough to feel immediate, long enough that
	// scrolling past a message does not mark it.
	DefaultDwell = 500 * time.Millisecond

	// DefaultThreshold is the minimum visible fraction of the element.
	DefaultThreshold = 0.5
)

// Timer is the cancelable handle returned by a timer factory.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f after d. The default is time.AfterFunc; tests
// inject a manual implementation.
type TimerFactory func(d time.Duration, f func()) Timer

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

func defaultTimerFactory(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

// Observer tracks per-element visibility reports and fires a callback once
// per observe lifetime when the dwell condition is met.
type Observer struct {
	onSeen    func(id string)
	dwell     time.Duration
	threshold float64
	newTimer  TimerFactory
	logger    zerolog.Logger

	mu       sync.Mutex
	closed   bool
	observed map[string]struct{}
	seen     map[string]struct{}
	timers   map[string]Timer
}

// Option customizes an Observer.
type Option func(*Observer)

// WithDwell overrides the dwell delay.
func WithDwell(d time.Duration) Option {
	return func(o *Observer) {
		if d > 0 {
			o.dwell = d
		}
	}
}

// WithThreshold overrides the minimum visible fraction.
func WithThreshold(f float64) Option {
	return func(o *Observer) {
		if f > 0 && f <= 1 {
			o.threshold = f
		}
	}
}

// WithTimerFactory overrides timer creation, for tests.
func WithTimerFactory(factory TimerFactory) Option {
	return func(o *Observer) {
		if factory != nil {
			o.newTimer = factory
		}
	}
}

// New creates an Observer that invokes onSeen with the element ID once the
// dwell condition holds.
func New(onSeen func(id string), opts ...Option) *Observer {
	o := &Observer{
		onSeen:    onSeen,
		dwell:     DefaultDwell,
		threshold: DefaultThreshold,
		newTimer:  defaultTimerFactory,
		logger:    logging.Component("visibility"),
		observed:  make(map[string]struct{}),
		seen:      make(map[string]struct{}),
		timers:    make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Observe registers an element. Reports for unregistered IDs are ignored,
// so callers only observe elements that can still become "seen" (already
// read messages are never observed).
func (o *Observer) Observe(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.observed[id] = struct{}{}
}

// Unobserve tears an element down: its pending timer is canceled and its
// lifetime state dropped, so no trigger can fire after unmount.
func (o *Observer) Unobserve(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelTimerLocked(id)
	delete(o.observed, id)
	delete(o.seen, id)
}

// Report feeds the current visible fraction for an element. Crossing the
// threshold starts the dwell timer; dropping below it cancels the timer so
// interrupted visibility never accumulates.
func (o *Observer) Report(id string, fraction float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if _, ok := o.observed[id]; !ok {
		return
	}
	if _, done := o.seen[id]; done {
		return
	}

	if fraction < o.threshold {
		o.cancelTimerLocked(id)
		return
	}
	if _, running := o.timers[id]; running {
		return
	}
	o.timers[id] = o.newTimer(o.dwell, func() { o.dwellElapsed(id) })
}

// Close cancels all timers; no callbacks fire afterwards.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for id := range o.timers {
		o.cancelTimerLocked(id)
	}
}

func (o *Observer) cancelTimerLocked(id string) {
	if timer, ok := o.timers[id]; ok {
		timer.Stop()
		delete(o.timers, id)
	}
}

// dwellElapsed runs on timer expiry. The seen marker guarantees the
// callback fires at most once per observe lifetime even if a stale timer
// races a fresh Report.
func (o *Observer) dwellElapsed(id string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	delete(o.timers, id)
	if _, ok := o.observed[id]; !ok {
		o.mu.Unlock()
		return
	}
	if _, done := o.seen[id]; done {
		o.mu.Unlock()
		return
	}
	o.seen[id] = struct{}{}
	o.mu.Unlock()

	o.logger.Debug().Str("element_id", id).Msg("dwell elapsed; element seen")
	if o.onSeen != nil {
		o.onSeen(id)
	}
}
