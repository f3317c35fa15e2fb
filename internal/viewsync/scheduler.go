package viewsync

import "sync"

// deferredCheck is a single-shot visibility continuation. It captures
// the slot by pointer and the slot's generation at schedule time; if
// the slot is rebound or removed before the next layout flush the
// generations no longer match and the check is a no-op.
type deferredCheck struct {
	target *slot
	gen    uint64
}

func (c deferredCheck) stale() bool {
	return c.target.generation() != c.gen
}

// scheduler queues deferred checks between layout flushes. Checks for
// the same slot run in scheduling order.
type scheduler struct {
	mu      sync.Mutex
	pending []deferredCheck
}

func (s *scheduler) schedule(target *slot) {
	s.mu.Lock()
	s.pending = append(s.pending, deferredCheck{target: target, gen: target.generation()})
	s.mu.Unlock()
}

// drain removes and returns everything pending, in FIFO order.
func (s *scheduler) drain() []deferredCheck {
	s.mu.Lock()
	out := s.pending
	s.pending = nil
	s.mu.Unlock()
	return out
}

func (s *scheduler) clear() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

func (s *scheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
