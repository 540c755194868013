// Package profile provides the SQLite-backed profile journal.
//
// The journal records, per engine session:
//   - Sessions: one row per engine bring-up, with the applied configuration
//   - Snapshots: EngineStats samples taken whenever the stats cache refreshes
//   - Sections: timed BeginProfile/EndProfile sections
//
// Rows within a session are ordered by an explicit seq column, never by
// wall-clock timestamps, so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package profile
