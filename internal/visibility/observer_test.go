package visibility

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualTimers is a TimerFactory whose timers only fire when the test
// says so.
type manualTimers struct {
	mu     sync.Mutex
	queued []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	f := t.f
	t.mu.Unlock()
	f()
}

func (m *manualTimers) factory(_ time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	timer := &manualTimer{f: f}
	m.queued = append(m.queued, timer)
	return timer
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	pending := m.queued
	m.queued = nil
	m.mu.Unlock()
	for _, timer := range pending {
		timer.fire()
	}
}

func (m *manualTimers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queued)
}

type seenRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *seenRecorder) record(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *seenRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestSeenFiresAfterDwell(t *testing.T) {
	timers := &manualTimers{}
	rec := &seenRecorder{}
	obs := New(rec.record, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 0.8)
	require.Empty(t, rec.all(), "callback must wait for the dwell delay")

	timers.fireAll()
	require.Equal(t, []string{"msg-1"}, rec.all())
}

func TestScrollPastDoesNotCountAsSeen(t *testing.T) {
	timers := &manualTimers{}
	rec := &seenRecorder{}
	obs := New(rec.record, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 0.9)
	obs.Report("msg-1", 0.1) // scrolled away before the dwell elapsed

	timers.fireAll()
	require.Empty(t, rec.all())

	// Becoming visible again restarts the dwell from scratch.
	obs.Report("msg-1", 1.0)
	timers.fireAll()
	require.Equal(t, []string{"msg-1"}, rec.all())
}

func TestBelowThresholdNeverStartsTimer(t *testing.T) {
	timers := &manualTimers{}
	obs := New(func(string) {}, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 0.49)
	require.Equal(t, 0, timers.count())
}

func TestSeenFiresAtMostOncePerLifetime(t *testing.T) {
	timers := &manualTimers{}
	rec := &seenRecorder{}
	obs := New(rec.record, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 1.0)
	timers.fireAll()

	obs.Report("msg-1", 1.0)
	obs.Report("msg-1", 1.0)
	timers.fireAll()
	require.Equal(t, []string{"msg-1"}, rec.all())
}

func TestRepeatedReportsReuseOneTimer(t *testing.T) {
	timers := &manualTimers{}
	obs := New(func(string) {}, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 0.6)
	obs.Report("msg-1", 0.7)
	obs.Report("msg-1", 0.8)
	require.Equal(t, 1, timers.count())
}

func TestUnobserveCancelsPendingTrigger(t *testing.T) {
	timers := &manualTimers{}
	rec := &seenRecorder{}
	obs := New(rec.record, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Report("msg-1", 1.0)
	obs.Unobserve("msg-1")

	timers.fireAll()
	require.Empty(t, rec.all(), "no trigger may fire after unmount")
}

func TestReportForUnobservedIDIsIgnored(t *testing.T) {
	timers := &manualTimers{}
	obs := New(func(string) {}, WithTimerFactory(timers.factory))

	obs.Report("msg-1", 1.0)
	require.Equal(t, 0, timers.count())
}

func TestCloseStopsEverything(t *testing.T) {
	timers := &manualTimers{}
	rec := &seenRecorder{}
	obs := New(rec.record, WithTimerFactory(timers.factory))

	obs.Observe("msg-1")
	obs.Observe("msg-2")
	obs.Report("msg-1", 1.0)
	obs.Report("msg-2", 1.0)
	obs.Close()

	timers.fireAll()
	require.Empty(t, rec.all())

	obs.Observe("msg-3")
	obs.Report("msg-3", 1.0)
	require.Equal(t, 0, timers.count())
}
