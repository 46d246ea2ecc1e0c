package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/metrics"
	"stoplens.dev/internal/poller"
)

var ErrClosed = errors.New("session manager closed")

// DefaultIdleTimeout is how long a session may go unused before Reap stops it.
const DefaultIdleTimeout = 5 * time.Minute

// Factory builds the controller for a new session. The manager starts it.
type Factory[V any] func(key string) *poller.Controller[V]

type ManagerOptions struct {
	IdleTimeout time.Duration
	Clock       clock.WithTicker
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Manager creates sessions on demand, reaps idle ones and stops every
// controller on shutdown.
type Manager[V any] struct {
	factory Factory[V]
	idle    time.Duration
	clock   clock.WithTicker
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session[V]
	closed   bool
}

func NewManager[V any](factory Factory[V], opts ManagerOptions) *Manager[V] {
	m := &Manager[V]{
		factory:  factory,
		idle:     opts.IdleTimeout,
		clock:    opts.Clock,
		logger:   logging.Component(opts.Logger, "session_manager"),
		metrics:  opts.Metrics,
		sessions: make(map[string]*Session[V]),
	}
	if m.idle <= 0 {
		m.idle = DefaultIdleTimeout
	}
	if m.clock == nil {
		m.clock = clock.RealClock{}
	}
	return m
}

// Open returns the session for key, creating and starting it when needed.
// The second result is true when the session was created by this call.
func (m *Manager[V]) Open(key string) (*Session[V], bool, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	if s, ok := m.sessions[key]; ok {
		s.touch(now)
		return s, false, nil
	}

	s := newSession(key, m.factory(key), now)
	m.sessions[key] = s
	s.Controller.Start()
	m.metrics.SessionOpened()
	m.logger.Info("session opened", slog.String("key", key))
	return s, true, nil
}

// Get returns an existing session without creating one.
func (m *Manager[V]) Get(key string) (*Session[V], bool) {
	m.mu.Lock()
	s, ok := m.sessions[key]
	m.mu.Unlock()
	if ok {
		s.touch(m.clock.Now())
	}
	return s, ok
}

// Close stops and forgets the session for key.
func (m *Manager[V]) Close(key string) bool {
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if ok {
		m.stop(s, "closed")
	}
	return ok
}

// Reap closes sessions unused for longer than the idle timeout and returns
// how many it closed.
func (m *Manager[V]) Reap() int {
	cutoff := m.clock.Now().Add(-m.idle)

	m.mu.Lock()
	var expired []*Session[V]
	for key, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.stop(s, "idle")
	}
	return len(expired)
}

// Run reaps idle sessions until ctx is done, then closes every session.
func (m *Manager[V]) Run(ctx context.Context) {
	ticker := m.clock.NewTicker(m.idle / 2)
	defer ticker.Stop()
	defer m.CloseAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if n := m.Reap(); n > 0 {
				m.logger.Debug("reaped idle sessions", slog.Int("count", n))
			}
		}
	}
}

// CloseAll stops every session. Open fails afterwards.
func (m *Manager[V]) CloseAll() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Session[V], 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[string]*Session[V])
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.stop(s, "shutdown")
		}()
	}
	wg.Wait()
}

// Keys returns the keys of the open sessions, sorted.
func (m *Manager[V]) Keys() []string {
	m.mu.Lock()
	keys := make([]string, 0, len(m.sessions))
	for k := range m.sessions {
		keys = append(keys, k)
	}
	m.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of open sessions.
func (m *Manager[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager[V]) stop(s *Session[V], reason string) {
	s.Controller.Stop()
	m.metrics.SessionClosed()
	m.logger.Info("session closed", slog.String("key", s.Key), slog.String("reason", reason))
}
