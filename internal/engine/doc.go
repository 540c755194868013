// Package engine implements the subsystem orchestrator.
//
// The engine brings a fixed set of collaborators online in dependency
// order, tears them down in reverse, and owns the configuration and the
// runtime statistics derived from them.
//
// BRING-UP:
//
// Stages run in subsystem.Order: core services, display, graphics backend,
// input, audio, world, network, assets. The configuration is validated
// before any stage is touched. A critical stage failure rolls back every
// stage that already came up, newest first, and surfaces as one *Error that
// wraps the stage's typed error. Audio and network are optional: their
// failure is logged and bring-up continues degraded (no audio, forced
// offline networking). The network stage is skipped when offline.
//
// TEAR-DOWN:
//
// Shutdown calls every stage's Shutdown in reverse order, even stages that
// never came up. Problems are logged and kept for ShutdownIssues; they never
// stop the remaining tear-down.
//
// STATISTICS:
//
// Stats is served from a cache refreshed at most once per interval (100ms by
// default). A refresh averages the frames recorded since the previous one,
// reads process memory, and queries reporting subsystems. Snapshots are
// journaled when a profile journal is open.
package engine
