package logic

import (
	"testing"
	"time"
)

func feedHold(d *Detector, level bool, fromMs, toMs, stepMs int) []Event {
	var events []Event
	for ms := fromMs; ms <= toMs; ms += stepMs {
		if ev := d.Feed(Sample{Pin: 14, Level: level, Time: at(ms)}); ev != nil {
			events = append(events, *ev)
		}
	}
	return events
}

func TestDetectorRisingEdge(t *testing.T) {
	d := NewDetector(14, EdgeRising, 50*time.Millisecond, false)

	events := feedHold(d, true, 0, 200, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Pin != 14 {
		t.Errorf("pin: got %d, want 14", ev.Pin)
	}
	if ev.Level != 1 {
		t.Errorf("level: got %d, want 1", ev.Level)
	}
	if !ev.Time.Equal(at(50)) {
		t.Errorf("time: got %v, want %v", ev.Time, at(50))
	}
}

func TestDetectorRisingSuppressesFalling(t *testing.T) {
	// RISING never emits for a confirmed 1->0 transition.
	d := NewDetector(14, EdgeRising, 50*time.Millisecond, true)

	events := feedHold(d, false, 0, 500, 10)
	if len(events) != 0 {
		t.Fatalf("expected no events for falling transition, got %d", len(events))
	}
	// The fall was still confirmed internally; a later rise is reported.
	if d.Level() {
		t.Error("confirmed level should be false")
	}
	events = feedHold(d, true, 510, 1000, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 rising event, got %d", len(events))
	}
	if events[0].Level != 1 {
		t.Errorf("level: got %d, want 1", events[0].Level)
	}
}

func TestDetectorFallingSuppressesRising(t *testing.T) {
	d := NewDetector(14, EdgeFalling, 50*time.Millisecond, false)

	events := feedHold(d, true, 0, 500, 10)
	if len(events) != 0 {
		t.Fatalf("expected no events for rising transition, got %d", len(events))
	}
	events = feedHold(d, false, 510, 1000, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 falling event, got %d", len(events))
	}
	if events[0].Level != 0 {
		t.Errorf("level: got %d, want 0", events[0].Level)
	}
}

func TestDetectorBothEdges(t *testing.T) {
	d := NewDetector(14, EdgeBoth, 50*time.Millisecond, false)

	events := feedHold(d, true, 0, 200, 10)
	events = append(events, feedHold(d, false, 210, 400, 10)...)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Level != 1 || events[1].Level != 0 {
		t.Errorf("levels: got %d,%d, want 1,0", events[0].Level, events[1].Level)
	}
	if events[1].Time.Before(events[0].Time) {
		t.Error("event times must be non-decreasing")
	}
}

func TestDetectorDebouncesNoise(t *testing.T) {
	d := NewDetector(14, EdgeBoth, 100*time.Millisecond, false)

	// Chatter faster than the window: no events.
	for ms := 0; ms < 400; ms += 20 {
		level := (ms/20)%2 == 1
		if ev := d.Feed(Sample{Pin: 14, Level: level, Time: at(ms)}); ev != nil {
			t.Fatalf("unexpected event at %dms: %+v", ms, ev)
		}
	}
}

func TestParseEdge(t *testing.T) {
	cases := []struct {
		in      string
		want    Edge
		wantErr bool
	}{
		{"RISING", EdgeRising, false},
		{"falling", EdgeFalling, false},
		{"Both", EdgeBoth, false},
		{"", "", true},
		{"SIDEWAYS", "", true},
	}
	for _, c := range cases {
		got, err := ParseEdge(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseEdge(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEdge(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseEdge(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}
