package feed

import "sync"

// Counter is the shared unread-count cell shown in the chat header. Its
// value is always set wholesale from a recomputed aggregate, never
// incremented in place, so it cannot drift or go negative.
type Counter struct {
	mu       sync.Mutex
	value    int
	onChange []func(int)
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores a new value and notifies observers when it changed.
// Negative input clamps to zero.
func (c *Counter) Set(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	if n == c.value {
		c.mu.Unlock()
		return
	}
	c.value = n
	observers := make([]func(int), len(c.onChange))
	copy(observers, c.onChange)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(n)
	}
}

func (c *Counter) Reset() {
	c.Set(0)
}

// Observe registers a callback invoked with the new value after every
// change.
func (c *Counter) Observe(fn func(int)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}
