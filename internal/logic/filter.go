package logic

import "time"

// Filter debounces a single pin's raw samples. It is a two-state machine:
// stable at a confirmed level, or pending a candidate level that must hold
// for the full window before it is confirmed. A raw flip shorter than the
// window resets nothing but the pending timer, so noise never surfaces.
type Filter struct {
	window       time.Duration
	stable       bool
	candidate    bool
	pendingSince time.Time
	pending      bool
}

// NewFilter creates a filter with the given window and initial confirmed
// level. A zero window confirms every raw change immediately.
func NewFilter(window time.Duration, initial bool) *Filter {
	return &Filter{window: window, stable: initial}
}

// Observe feeds one raw sample. It returns (level, true) at most once per
// level change, after the raw level has held for at least the window.
// The window comparison is inclusive: a sample landing exactly on the
// boundary confirms.
func (f *Filter) Observe(raw bool, now time.Time) (bool, bool) {
	if raw == f.stable {
		// Back at the confirmed level; any shorter flip was noise.
		f.pending = false
		return false, false
	}

	if !f.pending || f.candidate != raw {
		f.candidate = raw
		f.pendingSince = now
		f.pending = true
	}

	if now.Sub(f.pendingSince) >= f.window {
		f.stable = raw
		f.pending = false
		return f.stable, true
	}
	return false, false
}

// Stable returns the last confirmed level.
func (f *Filter) Stable() bool { return f.stable }
