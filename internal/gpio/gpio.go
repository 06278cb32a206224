// Package gpio provides digital pin access behind a Source interface.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"
	"strings"
)

// Direction configures a pin as input or output.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "OUT"
	}
	return "IN"
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "IN":
		return In, nil
	case "OUT":
		return Out, nil
	}
	return 0, fmt.Errorf("direction must be IN or OUT, got %q", s)
}

// Pull configures the bias resistor for an input pin.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "UP"
	case PullDown:
		return "DOWN"
	}
	return "NONE"
}

// ParsePull parses a pull name (case-insensitive). "OFF" is accepted as an
// alias for NONE.
func ParsePull(s string) (Pull, error) {
	switch strings.ToUpper(s) {
	case "", "NONE", "OFF":
		return PullNone, nil
	case "UP":
		return PullUp, nil
	case "DOWN":
		return PullDown, nil
	}
	return 0, fmt.Errorf("pull must be UP, DOWN or NONE, got %q", s)
}

// PinSpec describes how a single pin should be configured. Pin is the
// caller's identifier for the pin (in whatever numbering mode the user
// chose) and keys all reads, events, and snapshots. Line is the hardware
// line offset the identifier resolves to; the caller fills it in before a
// session starts, so a Source never interprets BOARD positions itself.
type PinSpec struct {
	Pin       int
	Line      int
	Direction Direction
	Pull      Pull // input only
}

// Source is the hardware pin capability handed to a monitoring session.
// There is no process-wide pin registry; everything goes through an
// explicit Source value.
type Source interface {
	// Configure claims a pin and applies the spec. Reconfiguring an
	// already-claimed pin is allowed.
	Configure(spec PinSpec) error

	// Read returns the pin's current level. The pin must be configured.
	// Failures are *ReadError and are fatal to a monitoring session.
	Read(pin int) (bool, error)

	// Write drives an output pin. Failures are *WriteError.
	Write(pin int, level bool) error

	// Release returns a pin to its unclaimed state.
	Release(pin int) error

	// Close releases all pins and the underlying device.
	Close() error
}

// ReadError reports a failed hardware read. Reads are assumed reliable, so a
// failure indicates a wiring or permission fault and is not retried.
type ReadError struct {
	Pin int
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read pin %d: %v", e.Pin, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed hardware write.
type WriteError struct {
	Pin int
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write pin %d: %v", e.Pin, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
