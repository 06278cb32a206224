//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Chardev is not available on non-Linux platforms.
type Chardev struct{}

// DefaultDevice matches the Linux build so callers compile everywhere.
const DefaultDevice = "gpiochip0"

// NewChardev returns an error on non-Linux platforms.
func NewChardev(device string) (*Chardev, error) {
	return nil, errUnsupported
}

func (c *Chardev) Configure(spec PinSpec) error { return errUnsupported }

func (c *Chardev) Read(pin int) (bool, error) { return false, errUnsupported }

func (c *Chardev) Write(pin int, level bool) error { return errUnsupported }

func (c *Chardev) Release(pin int) error { return nil }

func (c *Chardev) Close() error { return nil }
