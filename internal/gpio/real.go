//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultDevice is the GPIO character device on a Raspberry Pi.
const DefaultDevice = "gpiochip0"

// Chardev accesses pins through the Linux GPIO character device.
type Chardev struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewChardev opens the named GPIO chip (e.g. "gpiochip0").
func NewChardev(device string) (*Chardev, error) {
	chip, err := gpiocdev.NewChip(device)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", device, err)
	}
	return &Chardev{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

// Configure claims a line and applies the spec. An already-claimed line is
// released first so a pin can be repurposed within a process.
func (c *Chardev) Configure(spec PinSpec) error {
	if line, ok := c.lines[spec.Pin]; ok {
		line.Close()
		delete(c.lines, spec.Pin)
	}

	var opts []gpiocdev.LineReqOption
	if spec.Direction == Out {
		opts = append(opts, gpiocdev.AsOutput(0))
	} else {
		opts = append(opts, gpiocdev.AsInput)
		switch spec.Pull {
		case PullUp:
			opts = append(opts, gpiocdev.WithPullUp)
		case PullDown:
			opts = append(opts, gpiocdev.WithPullDown)
		default:
			opts = append(opts, gpiocdev.WithBiasDisabled)
		}
	}

	line, err := c.chip.RequestLine(spec.Line, opts...)
	if err != nil {
		return fmt.Errorf("request pin %d (line %d): %w", spec.Pin, spec.Line, err)
	}
	c.lines[spec.Pin] = line
	return nil
}

// Read returns the level of a configured pin.
func (c *Chardev) Read(pin int) (bool, error) {
	line, ok := c.lines[pin]
	if !ok {
		return false, &ReadError{Pin: pin, Err: errors.New("pin not configured")}
	}
	v, err := line.Value()
	if err != nil {
		return false, &ReadError{Pin: pin, Err: err}
	}
	return v != 0, nil
}

// Write drives a configured output pin.
func (c *Chardev) Write(pin int, level bool) error {
	line, ok := c.lines[pin]
	if !ok {
		return &WriteError{Pin: pin, Err: errors.New("pin not configured")}
	}
	v := 0
	if level {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return &WriteError{Pin: pin, Err: err}
	}
	return nil
}

// Release reconfigures a pin to input with pull-down (matching Pi boot
// defaults, so external hardware sees a clean state) and returns the line.
func (c *Chardev) Release(pin int) error {
	line, ok := c.lines[pin]
	if !ok {
		return nil
	}
	delete(c.lines, pin)

	var errs []error
	if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
	}
	if err := line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("release errors: %v", errs)
	}
	return nil
}

// Close releases all claimed pins and the chip.
func (c *Chardev) Close() error {
	var errs []error
	for pin := range c.lines {
		if err := c.Release(pin); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
