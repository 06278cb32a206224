package gpio

import (
	"errors"
	"sync"
)

// FakeSource is a test double that returns scripted pin levels.
// Each Read of a pin consumes the next scripted level; when a pin's script
// is exhausted the last level repeats. Safe for concurrent use.
type FakeSource struct {
	mu sync.Mutex

	// Levels contains per-pin scripted levels, consumed by Read.
	Levels map[int][]bool

	// ReadErr, if set, is returned (wrapped) by every Read.
	ReadErr error

	// WriteErr, if set, is returned (wrapped) by every Write.
	WriteErr error

	configured map[int]PinSpec
	written    map[int][]bool
	released   []int
	index      map[int]int
	closed     bool
}

// NewFakeSource creates a FakeSource with the given per-pin level scripts.
func NewFakeSource(levels map[int][]bool) *FakeSource {
	return &FakeSource{
		Levels:     levels,
		configured: make(map[int]PinSpec),
		written:    make(map[int][]bool),
		index:      make(map[int]int),
	}
}

func (f *FakeSource) Configure(spec PinSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured[spec.Pin] = spec
	return nil
}

func (f *FakeSource) Read(pin int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return false, &ReadError{Pin: pin, Err: f.ReadErr}
	}
	script, ok := f.Levels[pin]
	if !ok || len(script) == 0 {
		return false, &ReadError{Pin: pin, Err: errors.New("no levels scripted")}
	}
	level := script[f.index[pin]]
	if f.index[pin] < len(script)-1 {
		f.index[pin]++
	}
	return level, nil
}

func (f *FakeSource) Write(pin int, level bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteErr != nil {
		return &WriteError{Pin: pin, Err: f.WriteErr}
	}
	f.written[pin] = append(f.written[pin], level)
	return nil
}

func (f *FakeSource) Release(pin int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, pin)
	return nil
}

func (f *FakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Configured returns the spec a pin was last configured with.
func (f *FakeSource) Configured(pin int) (PinSpec, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	spec, ok := f.configured[pin]
	return spec, ok
}

// Written returns all levels written to a pin, in order.
func (f *FakeSource) Written(pin int) []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.written[pin]...)
}

// Released returns the pins released so far, in order.
func (f *FakeSource) Released() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.released...)
}

// Closed reports whether Close was called.
func (f *FakeSource) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
