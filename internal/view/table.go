// Package view renders monitor snapshots as a live terminal table,
// refreshing on its own cadence independent of the polling loop.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sweeney/gpiotool/internal/monitor"
	"github.com/sweeney/gpiotool/internal/pinmap"
)

const stateWidth = 10

// Table prints a boxed status table for a fixed set of pins.
type Table struct {
	out        io.Writer
	mode       pinmap.Mode
	pins       []int
	labels     []string
	labelWidth int
	title      string

	// clearScreen prefixes each frame with an ANSI clear, for live refresh
	// on a terminal. Off in tests.
	clearScreen bool

	lastGen  uint64
	rendered bool
}

// NewTable creates a table view for the given pins, in display order.
func NewTable(out io.Writer, mode pinmap.Mode, pins []int, title string, clearScreen bool) *Table {
	labels := make([]string, len(pins))
	width := 24
	for i, pin := range pins {
		labels[i] = pinmap.Label(pin, mode)
		if len(labels[i])+2 > width {
			width = len(labels[i]) + 2
		}
	}
	return &Table{
		out:         out,
		mode:        mode,
		pins:        pins,
		labels:      labels,
		labelWidth:  width,
		title:       title,
		clearScreen: clearScreen,
	}
}

// Render prints one frame. Frames with an unchanged generation are skipped,
// so an idle session does not repaint.
func (t *Table) Render(s *monitor.Snapshot) {
	if s == nil {
		return
	}
	if t.rendered && s.Generation == t.lastGen {
		return
	}
	t.lastGen = s.Generation
	t.rendered = true

	if t.clearScreen {
		fmt.Fprint(t.out, "\x1b[2J\x1b[H")
	}
	fmt.Fprintf(t.out, "\nGPIO Status (mode: %s)%s\n\n", t.mode, t.title)

	bar := strings.Repeat("═", t.labelWidth)
	stateBar := strings.Repeat("═", stateWidth)
	fmt.Fprintf(t.out, "╔%s╦%s╗\n", bar, stateBar)
	fmt.Fprintf(t.out, "║ %-*s║ %-*s║\n", t.labelWidth-1, "Pin", stateWidth-1, "State")
	fmt.Fprintf(t.out, "╠%s╬%s╣\n", bar, stateBar)
	for i, pin := range t.pins {
		fmt.Fprintf(t.out, "║ %-*s║ %-*s║\n", t.labelWidth-1, t.labels[i], stateWidth-1, s.Level(pin))
	}
	fmt.Fprintf(t.out, "╚%s╩%s╝\n", bar, stateBar)
	fmt.Fprintln(t.out, "\nPress CTRL+C to exit.")
}

// RenderError prints a terminal error state, so a fatal session error is
// visible instead of the view just disappearing.
func (t *Table) RenderError(err error) {
	fmt.Fprintf(t.out, "\nmonitoring stopped: %v\n", err)
}

// Run renders on its own timer until the context is cancelled. snap is
// called each tick for the latest snapshot.
func (t *Table) Run(ctx context.Context, interval time.Duration, snap func() *monitor.Snapshot) {
	t.Render(snap())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Render(snap())
		}
	}
}
