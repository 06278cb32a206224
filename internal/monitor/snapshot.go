package monitor

import "time"

// Level is a pin's state as shown in a snapshot.
type Level int8

const (
	LevelLow  Level = 0
	LevelHigh Level = 1
	// LevelNA marks a displayed position with no GPIO function
	// (power, ground, ID pins in BOARD numbering).
	LevelNA Level = -1
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "HIGH (1)"
	case LevelLow:
		return "LOW  (0)"
	}
	return "n/a"
}

// Snapshot is an immutable view of all monitored pins at one instant.
// The sampler builds a fresh one every tick and swaps it in wholesale;
// a reader holding a snapshot can never observe levels from two ticks.
type Snapshot struct {
	// Generation increments with every publication. Views use it to skip
	// redundant renders.
	Generation uint64
	Time       time.Time
	Levels     map[int]Level
}

// Level returns the level for a pin, or LevelNA if the pin is unknown.
func (s *Snapshot) Level(pin int) Level {
	if s == nil {
		return LevelNA
	}
	if l, ok := s.Levels[pin]; ok {
		return l
	}
	return LevelNA
}
