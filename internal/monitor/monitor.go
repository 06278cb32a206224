// Package monitor drives the polling loop that turns raw pin reads into
// debounced edge events and live snapshots. One Session owns one polling
// goroutine; views read its snapshots, sinks receive its events through
// their own writer goroutines, and everything stops on one context.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sweeney/gpiotool/internal/gpio"
	"github.com/sweeney/gpiotool/internal/logic"
	"github.com/sweeney/gpiotool/internal/sink"
)

// Config describes a monitoring session. It is validated up front and
// read-only once the session starts.
type Config struct {
	// Specs are the pins to poll, already resolved to hardware numbering.
	Specs []gpio.PinSpec

	// NAPins are displayed positions with no GPIO function. They appear in
	// every snapshot as LevelNA and are never read.
	NAPins []int

	Edge     logic.Edge
	Debounce time.Duration
	Poll     time.Duration

	// Iterations bounds the number of ticks; 0 means run until cancelled.
	Iterations int

	// TickDeadline, when positive, is the time budget for one tick's reads.
	// An overrun is treated as a fatal hardware fault: polling a handful of
	// memory-mapped pins should never take visible time, so a stall means
	// something is wrong below us. 0 disables the check.
	TickDeadline time.Duration

	// OnEvent, when set, is called synchronously for every detected event
	// (used by the monitor command to print a line per event).
	OnEvent func(logic.Event)
}

func (c Config) validate() error {
	if len(c.Specs) == 0 {
		return errors.New("no pins to monitor")
	}
	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.Poll)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %v", c.Debounce)
	}
	if _, err := logic.ParseEdge(string(c.Edge)); err != nil {
		return err
	}
	if c.TickDeadline < 0 {
		return fmt.Errorf("tick deadline must not be negative, got %v", c.TickDeadline)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iteration count must not be negative, got %d", c.Iterations)
	}
	return nil
}

// Summary reports what a finished session did.
type Summary struct {
	Ticks  uint64
	Events uint64
	Sinks  []sink.Stats
}

// errTickDeadline marks a tick that blew its read budget.
var errTickDeadline = errors.New("tick deadline exceeded")

// Session is one monitoring run: a set of pins, their detectors, the
// attached sink writers, and the current snapshot.
type Session struct {
	cfg     Config
	src     gpio.Source
	writers []*sink.Writer

	snap atomic.Pointer[Snapshot]

	// ticks/events are written by the polling goroutine only; reading them
	// is meaningful once Run has returned.
	ticks  uint64
	events uint64
}

// NewSession validates the config and prepares a session. The initial
// snapshot is empty (generation 0) until the first poll publishes.
func NewSession(src gpio.Source, cfg Config, writers ...*sink.Writer) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, src: src, writers: writers}

	levels := make(map[int]Level, len(cfg.NAPins))
	for _, pin := range cfg.NAPins {
		levels[pin] = LevelNA
	}
	s.snap.Store(&Snapshot{Levels: levels})
	return s, nil
}

// Snapshot returns the current snapshot. The returned value is immutable
// and safe to hold across ticks.
func (s *Session) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Run polls until the context is cancelled, the iteration bound is reached,
// or a hardware read fails. Cancellation is a clean stop (nil). Pins are
// released on every exit path.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Poll)
	defer ticker.Stop()
	return s.run(ctx, time.Now, ticker.C)
}

// run is the loop body with injectable clock and tick source for tests.
// The Go ticker drops ticks when a receiver is slow, so a long tick is
// followed by the next one without a backlog building up.
func (s *Session) run(ctx context.Context, now func() time.Time, tick <-chan time.Time) error {
	for _, spec := range s.cfg.Specs {
		if err := s.src.Configure(spec); err != nil {
			return fmt.Errorf("configure pin %d: %w", spec.Pin, err)
		}
	}
	defer func() {
		for _, spec := range s.cfg.Specs {
			s.src.Release(spec.Pin)
		}
	}()

	// Prime each detector with one read so a transition already in flight
	// at start is reported against the pre-start level.
	detectors := make(map[int]*logic.Detector, len(s.cfg.Specs))
	for _, spec := range s.cfg.Specs {
		level, err := s.src.Read(spec.Pin)
		if err != nil {
			return err
		}
		detectors[spec.Pin] = logic.NewDetector(spec.Pin, s.cfg.Edge, s.cfg.Debounce, level)
	}
	s.publish(now(), detectors)

	iterations := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			t := now()
			for _, spec := range s.cfg.Specs {
				level, err := s.src.Read(spec.Pin)
				if err != nil {
					return err
				}
				if s.cfg.TickDeadline > 0 && now().Sub(t) > s.cfg.TickDeadline {
					return &gpio.ReadError{Pin: spec.Pin, Err: errTickDeadline}
				}
				ev := detectors[spec.Pin].Feed(logic.Sample{Pin: spec.Pin, Level: level, Time: t})
				if ev == nil {
					continue
				}
				s.events++
				if s.cfg.OnEvent != nil {
					s.cfg.OnEvent(*ev)
				}
				for _, w := range s.writers {
					w.Enqueue(*ev)
				}
			}
			s.publish(t, detectors)
			s.ticks++

			iterations++
			if s.cfg.Iterations > 0 && iterations >= s.cfg.Iterations {
				return nil
			}
		}
	}
}

// publish swaps in a freshly built snapshot. The old one stays valid for
// any reader still holding it.
func (s *Session) publish(t time.Time, detectors map[int]*logic.Detector) {
	levels := make(map[int]Level, len(detectors)+len(s.cfg.NAPins))
	for pin, d := range detectors {
		if d.Level() {
			levels[pin] = LevelHigh
		} else {
			levels[pin] = LevelLow
		}
	}
	for _, pin := range s.cfg.NAPins {
		levels[pin] = LevelNA
	}
	prev := s.snap.Load()
	s.snap.Store(&Snapshot{
		Generation: prev.Generation + 1,
		Time:       t,
		Levels:     levels,
	})
}

// Close shuts down the sink writers, draining their queues.
// Call after Run has returned.
func (s *Session) Close() error {
	var errs []error
	for _, w := range s.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close sinks: %v", errs)
	}
	return nil
}

// Summary reports tick, event, and per-sink counters.
// Call after Run has returned.
func (s *Session) Summary() Summary {
	sum := Summary{Ticks: s.ticks, Events: s.events}
	for _, w := range s.writers {
		sum.Sinks = append(sum.Sinks, w.Stats())
	}
	return sum
}
