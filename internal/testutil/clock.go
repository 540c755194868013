package testutil

import (
	"context"
	"sync"
	"time"
)

// DefaultYieldStep is how far ManualClock advances on each Yield call.
const DefaultYieldStep = 100 * time.Microsecond

// ManualClock is a virtual wall clock for deterministic frame-loop tests.
//
// Time only moves when the test (or the code under test) calls Advance,
// Sleep, or Yield. Sleep advances by exactly the requested duration and
// records it so rate-limiter behaviour can be asserted.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu        sync.Mutex
	start     time.Time
	now       time.Time
	yieldStep time.Duration
	sleeps    []time.Duration
	yields    int
}

// NewManualClock creates a clock fixed at a deterministic epoch.
func NewManualClock() *ManualClock {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &ManualClock{
		start:     epoch,
		now:       epoch,
		yieldStep: DefaultYieldStep,
	}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values are ignored so the
// clock never runs backwards.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep advances the clock by d and records the request.
// A cancelled context returns immediately without advancing.
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// Yield advances the clock by the yield step, letting busy-wait loops
// terminate on a virtual timeline.
func (c *ManualClock) Yield() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yields++
	c.now = c.now.Add(c.yieldStep)
}

// SetYieldStep changes how far each Yield advances the clock.
func (c *ManualClock) SetYieldStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yieldStep = d
}

// Sleeps returns a copy of every duration passed to Sleep.
func (c *ManualClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// Yields returns the number of Yield calls so far.
func (c *ManualClock) Yields() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yields
}

// Elapsed returns the virtual time since construction or the last Reset.
func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(c.start)
}

// Reset rewinds the clock to its epoch and clears recorded sleeps.
//
// Used for test reuse so the same scenario produces identical timestamps.
func (c *ManualClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
	c.sleeps = nil
	c.yields = 0
}
