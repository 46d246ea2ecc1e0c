// Package poller keeps a screen's view fresh: it fetches on start, on every
// interval tick and on manual refresh, and keeps the last good view when a
// fetch fails.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"k8s.io/utils/clock"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/metrics"
)

// Trigger is what started a fetch.
type Trigger string

const (
	TriggerMount  Trigger = "mount"
	TriggerTick   Trigger = "tick"
	TriggerManual Trigger = "manual"
)

// Controller states.
const (
	StateIdle     = "idle"
	StateFetching = "fetching"
	StateStopped  = "stopped"
)

const (
	eventFetch  = "fetch"
	eventSettle = "settle"
	eventStop   = "stop"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultFetchTimeout = 15 * time.Second
)

var ErrStopped = errors.New("poller stopped")

// FetchFunc produces a fresh view.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type Options[V any] struct {
	Name         string
	Interval     time.Duration
	FetchTimeout time.Duration
	Clock        clock.WithTicker
	Logger       *slog.Logger
	Metrics      *metrics.Metrics

	// LastResolveWins applies every successful response in the order the
	// responses arrive, even when an older request resolves after a newer
	// one. By default such late responses are dropped.
	LastResolveWins bool

	// OnUpdate is called after a new view is applied. It must not call Stop.
	OnUpdate func(V)
}

// Controller owns the refresh cycle of one screen. Fetches may overlap; they
// are neither queued nor cancelled when another one starts.
type Controller[V any] struct {
	name         string
	fetch        FetchFunc[V]
	interval     time.Duration
	fetchTimeout time.Duration
	clock        clock.WithTicker
	logger       *slog.Logger
	metrics      *metrics.Metrics
	lastWins     bool
	onUpdate     func(V)

	mu         sync.Mutex
	machine    *fsm.FSM
	current    V
	hasCurrent bool
	updatedAt  time.Time
	lastErr    error
	seq        uint64 // last issued request token
	applied    uint64 // token of the applied view
	inflight   int
	manualSeq  uint64
	refreshing bool
	stopped    bool

	notifyMu sync.Mutex
	notified uint64

	baseCtx   context.Context
	cancel    context.CancelFunc
	stopCh    chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New returns a stopped-until-started controller around fetch.
func New[V any](fetch FetchFunc[V], opts Options[V]) *Controller[V] {
	c := &Controller[V]{
		name:         opts.Name,
		fetch:        fetch,
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		clock:        opts.Clock,
		metrics:      opts.Metrics,
		lastWins:     opts.LastResolveWins,
		onUpdate:     opts.OnUpdate,
		stopCh:       make(chan struct{}),
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	if c.clock == nil {
		c.clock = clock.RealClock{}
	}
	c.logger = logging.Component(opts.Logger, "poller").With(slog.String("screen", c.name))
	c.baseCtx, c.cancel = context.WithCancel(context.Background())

	c.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventFetch, Src: []string{StateIdle}, Dst: StateFetching},
			{Name: eventSettle, Src: []string{StateFetching}, Dst: StateIdle},
			{Name: eventStop, Src: []string{StateIdle, StateFetching}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.logger.Debug("poller state changed", slog.String("from", e.Src), slog.String("to", e.Dst))
			},
		},
	)
	return c
}

// Start creates the interval ticker and fires the initial fetch in the
// background. Calling Start more than once, or after Stop, does nothing.
func (c *Controller[V]) Start() {
	c.startOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.stopped {
			return
		}

		ticker := c.clock.NewTicker(c.interval)
		c.wg.Add(1)
		go c.loop(ticker)
		go func() { _ = c.run(c.baseCtx, TriggerMount) }()
	})
}

func (c *Controller[V]) loop(ticker clock.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C():
			go func() { _ = c.run(c.baseCtx, TriggerTick) }()
		}
	}
}

// Refresh fetches now and returns the fetch error, if any, so the caller can
// show it. The refreshing indicator stays on until the latest manual refresh
// resolves.
func (c *Controller[V]) Refresh(ctx context.Context) error {
	return c.run(ctx, TriggerManual)
}

// Stop cancels the ticker and any in-flight fetch, then waits for background
// work to finish. No fetch starts after Stop returns. Stop is idempotent.
func (c *Controller[V]) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.refreshing = false
		c.transition(eventStop)
		c.mu.Unlock()

		close(c.stopCh)
		c.cancel()
		c.wg.Wait()
	})
}

// Current returns the last applied view.
func (c *Controller[V]) Current() (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasCurrent
}

// Refreshing reports whether a manual refresh is in flight.
func (c *Controller[V]) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// State returns idle, fetching or stopped.
func (c *Controller[V]) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// LastError returns the error of the most recent failed fetch, cleared by the
// next applied view.
func (c *Controller[V]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// UpdatedAt returns when the current view was applied.
func (c *Controller[V]) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

func (c *Controller[V]) run(parent context.Context, trigger Trigger) error {
	seq, ok := c.begin(trigger)
	if !ok {
		return ErrStopped
	}
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(parent, c.fetchTimeout)
	defer cancel()
	release := context.AfterFunc(c.baseCtx, cancel)
	defer release()

	start := c.clock.Now()
	v, err := c.fetch(ctx)
	return c.finish(trigger, seq, v, err, c.clock.Since(start))
}

func (c *Controller[V]) begin(trigger Trigger) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return 0, false
	}

	c.seq++
	c.inflight++
	if c.inflight == 1 {
		c.transition(eventFetch)
	}
	if trigger == TriggerManual {
		c.manualSeq = c.seq
		c.refreshing = true
	}
	c.wg.Add(1)
	return c.seq, true
}

func (c *Controller[V]) finish(trigger Trigger, seq uint64, v V, err error, elapsed time.Duration) error {
	c.mu.Lock()
	c.inflight--
	if c.inflight == 0 && !c.stopped {
		c.transition(eventSettle)
	}
	if trigger == TriggerManual && seq == c.manualSeq {
		c.refreshing = false
	}

	if c.stopped {
		c.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrStopped
	}

	var outcome string
	switch {
	case err != nil:
		c.lastErr = err
		outcome = "failed"
	case !c.lastWins && seq < c.applied:
		outcome = "stale"
	default:
		c.current = v
		c.hasCurrent = true
		c.applied = seq
		c.updatedAt = c.clock.Now()
		c.lastErr = nil
		outcome = "success"
	}
	c.mu.Unlock()

	c.metrics.Poll(string(trigger), outcome)
	attrs := []slog.Attr{
		slog.String("trigger", string(trigger)),
		slog.Uint64("seq", seq),
		slog.Duration("duration", elapsed),
	}

	switch outcome {
	case "failed":
		logging.LogError(c.logger, "poll failed", err, attrs...)
		return err
	case "stale":
		c.logger.Debug("discarded stale poll response", slog.Uint64("seq", seq))
		return nil
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "poll applied", attrs...)
	c.notify(seq, v)
	return nil
}

func (c *Controller[V]) notify(seq uint64, v V) {
	if c.onUpdate == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if !c.lastWins && seq < c.notified {
		return
	}
	c.notified = seq
	c.onUpdate(v)
}

// transition must be called with c.mu held.
func (c *Controller[V]) transition(event string) {
	err := c.machine.Event(context.Background(), event)
	if err == nil {
		return
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}
	c.logger.Warn("invalid poller transition", slog.String("event", event), slog.String("state", c.machine.Current()), slog.String("error", err.Error()))
}
