package pexels

import (
	"sync"
	"time"
)

// Window is a rolling-window admission counter bounding outbound search
// calls. It is advisory and non-blocking: callers check Allow before the
// request and Record only when they actually issue one.
type Window struct {
	mu         sync.Mutex
	max        int
	span       time.Duration
	admissions []time.Time
	now        func() time.Time
}

// NewWindow builds a limiter admitting at most max calls per span.
func NewWindow(max int, span time.Duration) *Window {
	return &Window{
		max:  max,
		span: span,
		now:  time.Now,
	}
}

// Allow reports whether another call fits in the current window. Stale
// admissions are pruned before the check.
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked(w.now())
	return len(w.admissions) < w.max
}

// Record registers one admission at the current time.
func (w *Window) Record() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.pruneLocked(now)
	w.admissions = append(w.admissions, now)
}

func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.span)
	idx := 0
	for idx < len(w.admissions) && !w.admissions[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		w.admissions = append(w.admissions[:0], w.admissions[idx:]...)
	}
}
