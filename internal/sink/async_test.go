package sink

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/gpiotool/internal/logic"
)

func ev(n int) logic.Event {
	return logic.Event{Time: eventBase.Add(time.Duration(n) * time.Second), Pin: 14, Level: n % 2}
}

// gateSink blocks WriteEvent until released, to hold the writer goroutine
// mid-write while the queue is manipulated.
type gateSink struct {
	started chan struct{} // receives one value per WriteEvent entered
	release chan struct{}

	mu     sync.Mutex
	events []logic.Event
}

func newGateSink() *gateSink {
	return &gateSink{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (g *gateSink) WriteEvent(e logic.Event) error {
	g.started <- struct{}{}
	<-g.release
	g.mu.Lock()
	g.events = append(g.events, e)
	g.mu.Unlock()
	return nil
}

func (g *gateSink) Close() error { return nil }

func (g *gateSink) got() []logic.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]logic.Event(nil), g.events...)
}

func TestWriterDeliversInOrder(t *testing.T) {
	c := NewCollect()
	w := NewWriter("test", c, 16)

	for i := 0; i < 10; i++ {
		w.Enqueue(ev(i))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got := c.Events()
	if len(got) != 10 {
		t.Fatalf("got %d events, want 10", len(got))
	}
	for i, e := range got {
		if e != ev(i) {
			t.Errorf("event %d: got %+v, want %+v", i, e, ev(i))
		}
	}
	st := w.Stats()
	if st.Written != 10 || st.Dropped != 0 || st.Disabled {
		t.Errorf("stats: %+v", st)
	}
}

func TestWriterDropsOldestOnOverflow(t *testing.T) {
	g := newGateSink()
	w := NewWriter("test", g, 2)

	// First event is taken by the writer goroutine and blocks in the sink.
	w.Enqueue(ev(0))
	<-g.started

	// Fill the queue, then one more: the oldest queued event must go.
	w.Enqueue(ev(1))
	w.Enqueue(ev(2))
	w.Enqueue(ev(3))

	close(g.release)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got := g.got()
	want := []logic.Event{ev(0), ev(2), ev(3)}
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if st := w.Stats(); st.Dropped != 1 {
		t.Errorf("dropped: got %d, want 1", st.Dropped)
	}
}

func TestWriterDisablesAfterConsecutiveFailures(t *testing.T) {
	c := NewCollect()
	c.SetErr(errors.New("disk full"))
	w := NewWriter("test", c, 16)

	for i := 0; i < maxConsecutiveFailures+3; i++ {
		w.Enqueue(ev(i))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	st := w.Stats()
	if !st.Disabled {
		t.Error("writer should be disabled after consecutive failures")
	}
	if st.Written != 0 {
		t.Errorf("written: got %d, want 0", st.Written)
	}
	if len(c.Events()) != 0 {
		t.Errorf("sink recorded %d events, want 0", len(c.Events()))
	}
}

func TestWriterRecoversFromTransientFailures(t *testing.T) {
	c := NewCollect()
	c.SetErr(errors.New("transient"))
	w := NewWriter("test", c, 16)

	// A failure streak shorter than the threshold must not disable the
	// sink; events written after it heals still land.
	w.Enqueue(ev(0))
	w.Enqueue(ev(1))
	w.Enqueue(ev(2))
	time.Sleep(10 * time.Millisecond)
	c.SetErr(nil)
	w.Enqueue(ev(3))
	w.Enqueue(ev(4))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if st := w.Stats(); st.Disabled {
		t.Error("writer should not be disabled by a short failure streak")
	}
	got := c.Events()
	if len(got) < 2 {
		t.Fatalf("healed sink should have received events, got %v", got)
	}
	last := got[len(got)-1]
	if last != ev(4) {
		t.Errorf("last event: got %+v, want %+v", last, ev(4))
	}
}

func TestWriterEnqueueAfterDisableDrops(t *testing.T) {
	c := NewCollect()
	c.SetErr(errors.New("broken"))
	w := NewWriter("test", c, 4)

	for i := 0; i < maxConsecutiveFailures; i++ {
		w.Enqueue(ev(i))
	}
	// Wait until the writer has marked itself disabled.
	deadline := time.After(2 * time.Second)
	for !w.Stats().Disabled {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for disable")
		case <-time.After(time.Millisecond):
		}
	}

	before := w.Stats().Dropped
	w.Enqueue(ev(99))
	if got := w.Stats().Dropped; got != before+1 {
		t.Errorf("dropped: got %d, want %d", got, before+1)
	}
	w.Close()
}
