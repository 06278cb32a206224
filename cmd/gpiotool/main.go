// Command gpiotool operates and observes GPIO pins on a Raspberry Pi:
// one-shot reads, writes and pulses, a live status table, and an
// edge-monitoring mode that debounces transitions and logs them to CSV,
// JSONL, or MQTT.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sweeney/gpiotool/internal/gpio"
	"github.com/sweeney/gpiotool/internal/pinmap"
	"github.com/sweeney/gpiotool/internal/profile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "map":
		err = cmdMap(os.Args[2:])
	case "setup":
		err = cmdSetup(os.Args[2:])
	case "status":
		err = cmdStatus(os.Args[2:])
	case "monitor":
		err = cmdMonitor(os.Args[2:])
	case "read":
		err = cmdRead(os.Args[2:])
	case "write":
		err = cmdWrite(os.Args[2:])
	case "pulse":
		err = cmdPulse(os.Args[2:])
	case "tui":
		err = cmdTUI(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: gpiotool <command> [flags]

Commands:
  map      Print the 40-pin header mapping table
  setup    Configure a pin as IN/OUT with optional pull and initial level
  status   Live table of pin states
  monitor  Watch pins for edges, print and log events
  read     Read a single pin
  write    Write a single pin
  pulse    Pulse a pin HIGH for a duration (repeatable)
  tui      Full-screen live dashboard

Run 'gpiotool <command> -h' for command flags.
`)
}

// parsePins parses a comma-separated pin list like "14,16,4".
func parsePins(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	pins := make([]int, 0, len(parts))
	for _, part := range parts {
		pin, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid pin %q", part)
		}
		pins = append(pins, pin)
	}
	return pins, nil
}

// parseLevel parses a level word: HIGH/LOW, 1/0, ON/OFF, TRUE/FALSE.
func parseLevel(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "1", "HIGH", "ON", "TRUE":
		return true, nil
	case "0", "LOW", "OFF", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("level must be HIGH/LOW, 1/0, ON/OFF or TRUE/FALSE, got %q", s)
}

func levelWord(level int) string {
	if level != 0 {
		return "HIGH (1)"
	}
	return "LOW (0)"
}

// loadProfile loads the profile file if a path was given.
func loadProfile(path string) (*profile.Profile, error) {
	if path == "" {
		return nil, nil
	}
	return profile.Load(path)
}

// buildSpecs splits display pins into monitorable input specs and positions
// with no GPIO function (shown as n/a).
func buildSpecs(pins []int, mode pinmap.Mode, pull gpio.Pull) (specs []gpio.PinSpec, na []int) {
	for _, pin := range pins {
		line, ok := pinmap.BCMFromPin(pin, mode)
		if !ok {
			na = append(na, pin)
			continue
		}
		specs = append(specs, gpio.PinSpec{Pin: pin, Line: line, Direction: gpio.In, Pull: pull})
	}
	return specs, na
}

// singleSpec resolves one pin for the one-shot commands.
func singleSpec(pin int, mode pinmap.Mode, dir gpio.Direction, pull gpio.Pull) (gpio.PinSpec, error) {
	line, ok := pinmap.BCMFromPin(pin, mode)
	if !ok {
		return gpio.PinSpec{}, fmt.Errorf("pin %d has no GPIO function in %s mode", pin, mode)
	}
	return gpio.PinSpec{Pin: pin, Line: line, Direction: dir, Pull: pull}, nil
}

// subtitle builds the "[profile: x] [set: y]" suffix for the live views.
func subtitle(profPath, setName string) string {
	var sb strings.Builder
	if profPath != "" {
		fmt.Fprintf(&sb, "  [profile: %s]", filepath.Base(profPath))
	}
	if setName != "" {
		fmt.Fprintf(&sb, "  [set: %s]", setName)
	}
	return sb.String()
}
