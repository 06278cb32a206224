// Package profile loads pin-set profile files. A profile names a default
// numbering mode, a default pin list, and named pin sets:
//
//	{
//	  "mode": "BCM",
//	  "default_pins": [14, 16, 4],
//	  "sets": {"garage": [14, 16]}
//	}
//
// Files ending in .yml or .yaml are parsed as YAML, everything else as JSON.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/gpiotool/internal/pinmap"
)

// Profile is a parsed profile file.
type Profile struct {
	Mode        string           `json:"mode" yaml:"mode"`
	DefaultPins []int            `json:"default_pins" yaml:"default_pins"`
	Sets        map[string][]int `json:"sets" yaml:"sets"`
}

// Load reads and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse yaml profile %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse json profile %s: %w", path, err)
		}
	}
	return &p, nil
}

// ResolvePins picks the pin list for a command. Precedence: explicitly
// given pins, then a named set from the profile, then the profile's default
// pins, then the built-in default set for the mode.
func ResolvePins(explicit []int, setName string, p *Profile, mode pinmap.Mode) ([]int, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	if setName != "" {
		if p == nil {
			return nil, fmt.Errorf("set %q requested but no profile loaded", setName)
		}
		pins, ok := p.Sets[setName]
		if !ok {
			return nil, fmt.Errorf("set %q not found in profile", setName)
		}
		return pins, nil
	}
	if p != nil && len(p.DefaultPins) > 0 {
		return p.DefaultPins, nil
	}
	return pinmap.DefaultPins(mode), nil
}

// ResolveMode picks the numbering mode: the explicit flag wins, then the
// profile's mode, then BCM.
func ResolveMode(flagMode string, p *Profile) (pinmap.Mode, error) {
	if flagMode != "" {
		return pinmap.ParseMode(flagMode)
	}
	if p != nil && p.Mode != "" {
		return pinmap.ParseMode(p.Mode)
	}
	return pinmap.ModeBCM, nil
}
