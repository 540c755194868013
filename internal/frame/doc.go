// Package frame drives the per-frame sequence on top of an engine.Engine.
//
// A Scheduler owns frame timing: it measures each frame, scales and clamps
// the delta, advances a fixed-step accumulator (at most MaxFixedSteps per
// frame), dispatches the callback surface, presents, and limits the frame
// rate with a coarse sleep followed by a short spin on the clock.
//
// Frame order:
//
//  1. timing update
//  2. event polling (also while paused)
//  3. fixed-step update, variable update, render, GUI, present (skipped while paused)
//  4. frame-rate limiting
//  5. frame counter increment
//
// Run is the blocking entry point. Initialize, RunFrame and ShouldClose are
// exported for callers that drive the loop themselves.
package frame
