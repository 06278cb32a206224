package sink

import (
	"sync"

	"github.com/sweeney/gpiotool/internal/logic"
)

// Collect is a test double that records events in memory.
// Safe for concurrent use (the async Writer calls it from its own goroutine).
type Collect struct {
	mu     sync.Mutex
	events []logic.Event
	closed bool

	// Err, if set, is returned by every WriteEvent.
	Err error
}

// NewCollect creates an empty collecting sink.
func NewCollect() *Collect {
	return &Collect{}
}

func (c *Collect) WriteEvent(e logic.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.events = append(c.events, e)
	return nil
}

func (c *Collect) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Events returns a copy of the recorded events in write order.
func (c *Collect) Events() []logic.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]logic.Event(nil), c.events...)
}

// Closed reports whether Close was called.
func (c *Collect) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SetErr changes the error returned by WriteEvent.
func (c *Collect) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Err = err
}
