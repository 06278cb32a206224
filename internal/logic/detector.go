package logic

import "time"

// Detector turns one pin's raw samples into events: it debounces them and
// keeps only the transitions matching the configured edge mode. A confirmed
// change in the wrong direction is silently suppressed, not an error.
type Detector struct {
	pin    int
	edge   Edge
	filter *Filter
}

// NewDetector creates a detector for a pin. The initial level primes the
// debounce filter so a transition already in flight at session start is
// still reported.
func NewDetector(pin int, edge Edge, window time.Duration, initial bool) *Detector {
	return &Detector{
		pin:    pin,
		edge:   edge,
		filter: NewFilter(window, initial),
	}
}

// Feed processes one raw sample and returns an event if it confirms a level
// change matching the edge mode, nil otherwise.
func (d *Detector) Feed(s Sample) *Event {
	level, changed := d.filter.Observe(s.Level, s.Time)
	if !changed {
		return nil
	}
	switch d.edge {
	case EdgeRising:
		if !level {
			return nil
		}
	case EdgeFalling:
		if level {
			return nil
		}
	}
	state := 0
	if level {
		state = 1
	}
	return &Event{Time: s.Time, Pin: d.pin, Level: state}
}

// Level returns the pin's current confirmed level.
func (d *Detector) Level() bool { return d.filter.Stable() }
