// Package logic contains the pure debounce and edge-detection core.
// This package has NO external dependencies (no GPIO, files, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"strings"
	"time"
)

// Edge selects which confirmed transitions produce events.
type Edge string

const (
	EdgeRising  Edge = "RISING"
	EdgeFalling Edge = "FALLING"
	EdgeBoth    Edge = "BOTH"
)

// ParseEdge parses an edge mode name (case-insensitive).
func ParseEdge(s string) (Edge, error) {
	switch Edge(strings.ToUpper(s)) {
	case EdgeRising:
		return EdgeRising, nil
	case EdgeFalling:
		return EdgeFalling, nil
	case EdgeBoth:
		return EdgeBoth, nil
	}
	return "", fmt.Errorf("edge must be RISING, FALLING or BOTH, got %q", s)
}

// Sample is one raw pin reading.
type Sample struct {
	Pin   int
	Level bool
	Time  time.Time
}

// Event is a confirmed, edge-filtered level change. Events are immutable
// once created and are recorded in detection order, which is non-decreasing
// in time across all pins of a session.
type Event struct {
	Time  time.Time
	Pin   int
	Level int // 0 or 1
}
