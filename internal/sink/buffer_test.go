package sink

import (
	"fmt"
	"testing"
)

func payload(n int) []byte {
	return []byte(fmt.Sprintf("payload-%d", n))
}

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	if got := r.drainAll(); got != nil {
		t.Errorf("empty drain: got %v, want nil", got)
	}

	r.push(payload(1))
	r.push(payload(2))
	r.push(payload(3))
	if r.len() != 3 {
		t.Errorf("len: got %d, want 3", r.len())
	}

	got := r.drainAll()
	if len(got) != 3 {
		t.Fatalf("drained %d, want 3", len(got))
	}
	for i, p := range got {
		want := string(payload(i + 1))
		if string(p) != want {
			t.Errorf("drained %d: got %s, want %s", i, p, want)
		}
	}

	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 1; i <= 5; i++ {
		r.push(payload(i))
	}
	if r.len() != 3 {
		t.Errorf("len: got %d, want 3", r.len())
	}

	got := r.drainAll()
	want := []string{"payload-3", "payload-4", "payload-5"}
	if len(got) != len(want) {
		t.Fatalf("drained %d, want %d", len(got), len(want))
	}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Errorf("drained %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)

	r.push(payload(1))
	r.drainAll()
	r.push(payload(2))
	r.push(payload(3))

	got := r.drainAll()
	if len(got) != 2 || string(got[0]) != "payload-2" || string(got[1]) != "payload-3" {
		t.Errorf("drained: got %v", got)
	}
}
