package schedule

import "time"

// Handle cancels one pending callback.
type Handle interface {
	// Cancel stops the callback if it has not run yet. Calling it more than
	// once, or after the callback ran, is a no-op.
	Cancel()
}

// Timers runs fn once after delay.
type Timers interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// RealTimers schedules callbacks with time.AfterFunc.
type RealTimers struct{}

func (RealTimers) Schedule(delay time.Duration, fn func()) Handle {
	return afterFunc{time.AfterFunc(delay, fn)}
}

type afterFunc struct{ t *time.Timer }

func (h afterFunc) Cancel() { h.t.Stop() }
