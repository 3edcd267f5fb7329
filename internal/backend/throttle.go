package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces tmux fetches so a short poll interval cannot hammer the
// server. A zero interval never blocks.
type throttle struct {
	gap time.Duration

	mu   sync.Mutex
	last time.Time
}

func newThrottle(gap time.Duration) *throttle {
	if gap < 0 {
		gap = 0
	}
	return &throttle{gap: gap}
}

// wait blocks until gap has passed since the previous call returned true.
// It returns false if ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.gap == 0 {
		return ctx.Err() == nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if delay := t.gap - time.Since(t.last); delay > 0 && !t.last.IsZero() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	t.last = time.Now()
	return true
}
