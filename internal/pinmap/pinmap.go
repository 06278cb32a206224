// Package pinmap describes the Raspberry Pi 40-pin header and the two
// numbering modes used to address it. BCM numbers refer to the SoC GPIO
// lines; BOARD numbers refer to physical header positions, some of which
// are power, ground, or ID pins with no GPIO function.
package pinmap

import (
	"fmt"
	"strings"
)

// Mode selects how pin numbers are interpreted.
type Mode string

const (
	ModeBCM   Mode = "BCM"
	ModeBoard Mode = "BOARD"
)

// ParseMode parses a numbering mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(s) {
	case "BCM":
		return ModeBCM, nil
	case "BOARD":
		return ModeBoard, nil
	}
	return "", fmt.Errorf("numbering mode must be BCM or BOARD, got %q", s)
}

// Entry describes one physical header position.
type Entry struct {
	Label string
	BCM   int // -1 for positions with no GPIO function
}

// header maps physical position (1-40) to its function.
var header = map[int]Entry{
	1:  {"3V3", -1},           2:  {"5V", -1},
	3:  {"GPIO2 (SDA1)", 2},   4:  {"5V", -1},
	5:  {"GPIO3 (SCL1)", 3},   6:  {"GND", -1},
	7:  {"GPIO4", 4},          8:  {"GPIO14 (TXD)", 14},
	9:  {"GND", -1},           10: {"GPIO15 (RXD)", 15},
	11: {"GPIO17", 17},        12: {"GPIO18", 18},
	13: {"GPIO27", 27},        14: {"GND", -1},
	15: {"GPIO22", 22},        16: {"GPIO23", 23},
	17: {"3V3", -1},           18: {"GPIO24", 24},
	19: {"GPIO10 (MOSI)", 10}, 20: {"GND", -1},
	21: {"GPIO9 (MISO)", 9},   22: {"GPIO25", 25},
	23: {"GPIO11 (SCLK)", 11}, 24: {"GPIO8 (CE0)", 8},
	25: {"GND", -1},           26: {"GPIO7 (CE1)", 7},
	27: {"ID_SD", -1},         28: {"ID_SC", -1},
	29: {"GPIO5", 5},          30: {"GND", -1},
	31: {"GPIO6", 6},          32: {"GPIO12", 12},
	33: {"GPIO13", 13},        34: {"GND", -1},
	35: {"GPIO19", 19},        36: {"GPIO16", 16},
	37: {"GPIO26", 26},        38: {"GPIO20", 20},
	39: {"GND", -1},           40: {"GPIO21", 21},
}

// Lookup returns the header entry for a physical position.
func Lookup(phys int) (Entry, bool) {
	e, ok := header[phys]
	return e, ok
}

// PhysFromBCM returns the physical position carrying the given BCM line.
func PhysFromBCM(bcm int) (int, bool) {
	for phys, e := range header {
		if e.BCM == bcm {
			return phys, true
		}
	}
	return 0, false
}

// BCMFromPin resolves a pin number in the given mode to a BCM line number.
// Returns false for physical positions with no GPIO function, or for BCM
// numbers not present on the header.
func BCMFromPin(pin int, mode Mode) (int, bool) {
	if mode == ModeBoard {
		e, ok := header[pin]
		if !ok || e.BCM < 0 {
			return 0, false
		}
		return e.BCM, true
	}
	if _, ok := PhysFromBCM(pin); !ok {
		return 0, false
	}
	return pin, true
}

// IsGPIO reports whether the pin addresses a usable GPIO line in the given mode.
func IsGPIO(pin int, mode Mode) bool {
	_, ok := BCMFromPin(pin, mode)
	return ok
}

// Label returns a human-readable name for a pin in the given mode, e.g.
// "GPIO14 (phys 8)" in BCM mode or "GND (phys 14)" in BOARD mode.
func Label(pin int, mode Mode) string {
	if mode == ModeBCM {
		if phys, ok := PhysFromBCM(pin); ok {
			return fmt.Sprintf("GPIO%d (phys %d)", pin, phys)
		}
		return fmt.Sprintf("GPIO%d", pin)
	}
	e, ok := header[pin]
	if !ok {
		return fmt.Sprintf("PIN %d", pin)
	}
	if e.BCM >= 0 {
		return fmt.Sprintf("%s (phys %d) [BCM %d]", e.Label, pin, e.BCM)
	}
	return fmt.Sprintf("%s (phys %d)", e.Label, pin)
}

// defaultBCM is the conventional watch set for BCM mode: the general-purpose
// lines, leaving out the SPI bus pins.
var defaultBCM = []int{2, 3, 4, 14, 15, 16, 17, 18, 27, 22, 23, 24, 25, 5, 6, 12, 13, 19, 26, 20, 21}

// DefaultPins returns the conventional pin set for a mode: every header
// position for BOARD, the general-purpose lines for BCM.
func DefaultPins(mode Mode) []int {
	if mode == ModeBoard {
		pins := make([]int, 40)
		for i := range pins {
			pins[i] = i + 1
		}
		return pins
	}
	return append([]int(nil), defaultBCM...)
}
