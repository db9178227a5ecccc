// Package poller keeps the dashboard snapshot fresh with a periodic,
// visibility-gated fetch loop.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/logging"
	"github.com/fitmate/admin-console/internal/models"
)

// Poller errors.
var (
	ErrAlreadyRunning  = errors.New("poller already running")
	ErrNotRunning      = errors.New("poller not running")
	ErrRefreshInFlight = errors.New("a refresh is already in flight")
)

// DefaultInterval is the scheduled refresh cadence.
const DefaultInterval = 30 * time.Second

// FetchFunc fetches a fresh dashboard snapshot.
type FetchFunc func(ctx context.Context) (*models.DashboardSnapshot, error)

// Result is delivered to OnResult after every completed fetch. Manual
// distinguishes user-triggered refreshes from scheduled ticks: scheduled
// ticks only warrant surfacing failures, manual refreshes surface both.
type Result struct {
	Snapshot *models.DashboardSnapshot
	Err      error
	Manual   bool
}

// Config contains poller configuration.
type Config struct {
	// Interval is the scheduled refresh cadence. Default: 30s.
	Interval time.Duration

	// Visible gates scheduled ticks. It is evaluated at each tick (the
	// timer is never paused); a hidden dashboard skips the fetch
	// entirely. Nil means always visible.
	Visible func() bool

	// OnResult receives the outcome of every completed fetch. May be nil.
	OnResult func(Result)
}

// Poller runs the fetch loop. A fetch still in flight causes the next
// scheduled tick to be skipped rather than overlapped, so a slow backend
// delays refreshes instead of stacking them.
type Poller struct {
	interval time.Duration
	visible  func() bool
	onResult func(Result)
	fetch    FetchFunc
	logger   zerolog.Logger

	mu       sync.Mutex
	running  bool
	inFlight bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a Poller.
func New(cfg Config, fetch FetchFunc) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	visible := cfg.Visible
	if visible == nil {
		visible = func() bool { return true }
	}
	return &Poller{
		interval: interval,
		visible:  visible,
		onResult: cfg.OnResult,
		fetch:    fetch,
		logger:   logging.Component("dashboard-poller"),
	}
}

// Start performs an immediate fetch and then begins the tick loop.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true
	p.mu.Unlock()

	p.logger.Info().Dur("interval", p.interval).Msg("dashboard poller starting")

	// Immediate fetch on mount, then the scheduled cadence.
	p.tick()

	p.wg.Add(1)
	go p.runLoop()
	return nil
}

// Stop halts the loop and waits for any in-flight fetch to finish.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info().Msg("dashboard poller stopped")
	return nil
}

// IsRunning reports whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// RefreshNow runs a user-triggered fetch independent of the timer, sharing
// the same fetch-and-replace path. It returns ErrRefreshInFlight when a
// fetch is already running, and otherwise the fetch outcome.
func (p *Poller) RefreshNow(ctx context.Context) error {
	if !p.beginFetch() {
		return ErrRefreshInFlight
	}
	return p.doFetch(ctx, true)
}

// runLoop fires scheduled ticks until the context is canceled.
func (p *Poller) runLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick performs one scheduled cycle: evaluate the visibility guard, skip
// if a previous fetch has not resolved, otherwise fetch in the background.
func (p *Poller) tick() {
	if !p.visible() {
		p.logger.Debug().Msg("tick skipped: dashboard hidden")
		return
	}
	if !p.beginFetch() {
		p.logger.Debug().Msg("tick skipped: fetch still in flight")
		return
	}

	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.doFetch(ctx, false)
	}()
}

// beginFetch claims the single fetch slot.
func (p *Poller) beginFetch() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

// doFetch runs the fetch-and-replace path and releases the fetch slot.
// Callers must have claimed the slot via beginFetch.
func (p *Poller) doFetch(ctx context.Context, manual bool) error {
	snapshot, err := p.fetch(ctx)

	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		p.logger.Warn().Err(err).Bool("manual", manual).Msg("dashboard fetch failed")
	}
	if p.onResult != nil {
		p.onResult(Result{Snapshot: snapshot, Err: err, Manual: manual})
	}
	return err
}
