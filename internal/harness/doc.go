// Package harness runs lifecycle scenarios against the real engine and
// frame scheduler.
//
// Every subsystem is replaced by a recording collaborator, time comes from
// a testutil.ManualClock, and the session id is fixed, so a scenario
// produces the same trace on every run. Traces can be compared against
// golden files.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: renderer_failure_rolls_back
//	description: "Renderer fails during bring-up"
//	preset: minimal
//	fail: [renderer]
//	frames: 2
//	frame_ms: 16
//	assertions:
//	  - type: trace_order
//	    events: [shutdown:display, shutdown:core]
//	  - type: result
//	    expect: error
//	    code: BACKEND_INIT_FAILED
//
// Fields:
//
//   - preset: default, minimal (default) or maximal
//   - network: network mode override (e.g. p2p_host)
//   - fail: stages whose Init fails
//   - fail_shutdown: stages whose Shutdown reports a problem
//   - frames: frames to run (frame limit)
//   - frame_ms: simulated work per frame, advanced inside the update hook
//   - time_scale, target_fps, fixed_timestep: scheduler settings
//
// # Trace Events
//
//   - init:<stage>, fail:<stage>, shutdown:<stage>: collaborator lifecycle
//   - frame:<n>: start of frame n (1-based), recorded by the display poll
//   - hook:<name>: callback invocations (start, fixed_update, update,
//     render, gui, shutdown)
//
// # Assertion Types
//
//   - trace_contains: an event appears in the trace
//   - trace_order: events appear in the given order (gaps allowed)
//   - trace_count: an event appears exactly N times
//   - result: the run outcome is ok or error, optionally with a code from
//     the error chain
//   - available / unavailable: stage availability right after bring-up
package harness
