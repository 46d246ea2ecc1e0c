// Package session keeps per-screen state: one polling controller plus the UI
// state of the screen that owns it. Nothing is shared between sessions.
package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"stoplens.dev/internal/poller"
)

// State is the UI state of one screen.
type State struct {
	ExpandedRoutes []string `json:"expandedRoutes"`
	ManualInput    string   `json:"manualInput"`
}

// Session is one open screen.
type Session[V any] struct {
	Key        string
	Controller *poller.Controller[V]

	mu          sync.Mutex
	expanded    map[string]bool
	manualInput string
	lastSeen    time.Time
}

func newSession[V any](key string, c *poller.Controller[V], now time.Time) *Session[V] {
	return &Session[V]{
		Key:        key,
		Controller: c,
		expanded:   make(map[string]bool),
		lastSeen:   now,
	}
}

// ToggleRoute flips the expanded flag of route and returns the new value.
func (s *Session[V]) ToggleRoute(route string) bool {
	route = strings.TrimSpace(route)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded[route] {
		delete(s.expanded, route)
		return false
	}
	s.expanded[route] = true
	return true
}

func (s *Session[V]) Expanded(route string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[strings.TrimSpace(route)]
}

func (s *Session[V]) SetManualInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualInput = text
}

// State returns a copy of the UI state with expanded routes sorted.
func (s *Session[V]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	routes := make([]string, 0, len(s.expanded))
	for r := range s.expanded {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return State{ExpandedRoutes: routes, ManualInput: s.manualInput}
}

func (s *Session[V]) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session[V]) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
