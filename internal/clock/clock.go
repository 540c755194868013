// Package clock abstracts wall-clock time for the engine and the frame loop.
//
// Frame timing, stats freshness, and rate limiting all read time through a
// Clock so tests can drive a virtual timeline (see testutil.ManualClock)
// instead of sleeping.
package clock

import (
	"context"
	"runtime"
	"time"
)

// Clock is the time source used by the frame loop.
//
// Sleep is the only blocking call. It returns early with ctx.Err() when the
// context is cancelled. Yield is called by busy-wait loops between polls.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
	Yield()
}

// System is the real clock backed by the monotonic reading of time.Now.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Sleep blocks for d or until ctx is done.
func (System) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Yield gives other goroutines a chance to run.
func (System) Yield() {
	runtime.Gosched()
}
