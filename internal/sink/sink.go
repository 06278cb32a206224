// Package sink provides durable append-only destinations for pin events.
// File sinks flush each record before returning, so a crash loses at most
// the in-flight event. Slow sinks are decoupled from the poll loop by
// Writer, which drains a bounded queue on its own goroutine.
package sink

import "github.com/sweeney/gpiotool/internal/logic"

// Sink records events durably, in the order they are written.
type Sink interface {
	WriteEvent(e logic.Event) error
	Close() error
}

// record is the wire form shared by the JSONL and MQTT backends.
// Timestamps are integer Unix seconds in every backend, so logs from the
// same run line up across formats.
type record struct {
	Timestamp int64 `json:"timestamp"`
	Pin       int   `json:"pin"`
	State     int   `json:"state"`
}

func recordFor(e logic.Event) record {
	return record{
		Timestamp: e.Time.Unix(),
		Pin:       e.Pin,
		State:     e.Level,
	}
}
