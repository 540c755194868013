package engine

import "sync/atomic"

// Generation is a monotonic counter bumped every time the engine's
// configuration changes (wholesale replace or live update).
//
// The frame scheduler compares the value it last saw against Current once
// per frame and re-reads the settings it caches (target FPS, timestep)
// only when the counter has moved.
//
// Thread-safety: Generation is safe for concurrent use (atomic operations).
type Generation struct {
	seq atomic.Int64
}

// NewGeneration creates a counter starting at 0.
func NewGeneration() *Generation {
	return &Generation{}
}

// Next increments the counter and returns the new value.
func (g *Generation) Next() int64 {
	return g.seq.Add(1)
}

// Current returns the counter without incrementing.
func (g *Generation) Current() int64 {
	return g.seq.Load()
}
