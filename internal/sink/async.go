package sink

import (
	"log"
	"sync/atomic"

	"github.com/sweeney/gpiotool/internal/logic"
)

// maxConsecutiveFailures is how many write errors in a row disable a sink.
// Disabling bounds the retry noise from a persistently broken destination;
// the rest of the session carries on.
const maxConsecutiveFailures = 5

// DefaultQueueSize is the per-sink event queue capacity.
const DefaultQueueSize = 64

// Writer drains events to a Sink on its own goroutine so a slow sink never
// delays the poll loop. The queue is bounded; on overflow the oldest queued
// event is dropped and counted, keeping memory bounded under I/O stalls.
type Writer struct {
	name     string
	sink     Sink
	ch       chan logic.Event
	done     chan struct{}
	written  atomic.Uint64
	dropped  atomic.Uint64
	disabled atomic.Bool
	failures int // writer goroutine only
}

// Stats summarizes a writer's activity for the session summary.
type Stats struct {
	Name     string
	Written  uint64
	Dropped  uint64
	Disabled bool
}

// NewWriter wraps a sink with an asynchronous bounded-queue writer and
// starts its goroutine. The name appears in logs and the session summary.
func NewWriter(name string, s Sink, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	w := &Writer{
		name: name,
		sink: s,
		ch:   make(chan logic.Event, queueSize),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue hands an event to the writer without ever blocking. If the queue
// is full the oldest queued event is discarded to make room.
// Must not be called after Close.
func (w *Writer) Enqueue(e logic.Event) {
	if w.disabled.Load() {
		w.dropped.Add(1)
		return
	}
	select {
	case w.ch <- e:
		return
	default:
	}
	// Queue full: drop the oldest and retry once. The drain goroutine may
	// have freed a slot in between, in which case nothing is dropped.
	select {
	case <-w.ch:
		w.dropped.Add(1)
	default:
	}
	select {
	case w.ch <- e:
	default:
		w.dropped.Add(1)
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for e := range w.ch {
		if w.disabled.Load() {
			continue
		}
		if err := w.sink.WriteEvent(e); err != nil {
			w.failures++
			log.Printf("sink %s: write error: %v", w.name, err)
			if w.failures >= maxConsecutiveFailures {
				log.Printf("sink %s: disabled after %d consecutive failures", w.name, w.failures)
				w.disabled.Store(true)
			}
			continue
		}
		w.failures = 0
		w.written.Add(1)
	}
}

// Close drains the remaining queued events and closes the underlying sink.
func (w *Writer) Close() error {
	close(w.ch)
	<-w.done
	return w.sink.Close()
}

// Stats returns the writer's counters. Safe to call concurrently.
func (w *Writer) Stats() Stats {
	return Stats{
		Name:     w.name,
		Written:  w.written.Load(),
		Dropped:  w.dropped.Load(),
		Disabled: w.disabled.Load(),
	}
}
