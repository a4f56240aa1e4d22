package httpapi

import (
	"sync"
	"time"
)

// FixedWindowStore counts requests per client in fixed windows. It satisfies echo's
// middleware.RateLimiterStore.
type FixedWindowStore struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*windowCounter
	lastSweep time.Time
}

type windowCounter struct {
	start time.Time
	count int
}

func NewFixedWindowStore(limit int, window time.Duration) *FixedWindowStore {
	return newFixedWindowStore(limit, window, time.Now)
}

func newFixedWindowStore(limit int, window time.Duration, now func() time.Time) *FixedWindowStore {
	if limit <= 0 {
		limit = defaultRateLimitRequests
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &FixedWindowStore{
		limit:     limit,
		window:    window,
		now:       now,
		clients:   make(map[string]*windowCounter),
		lastSweep: now(),
	}
}

// Allow admits the request if the client has not used up the current window.
func (s *FixedWindowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.window {
		s.sweep(now)
	}

	counter, ok := s.clients[identifier]
	if !ok || now.Sub(counter.start) >= s.window {
		counter = &windowCounter{start: now}
		s.clients[identifier] = counter
	}
	if counter.count >= s.limit {
		return false, nil
	}
	counter.count++
	return true, nil
}

// sweep drops counters whose window has ended. Caller holds mu.
func (s *FixedWindowStore) sweep(now time.Time) {
	for id, counter := range s.clients {
		if now.Sub(counter.start) >= s.window {
			delete(s.clients, id)
		}
	}
	s.lastSweep = now
}
