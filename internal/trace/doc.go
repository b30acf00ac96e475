// Package trace provides durable recording of engine runs for replay
// verification.
//
// A run is identified by a time-sortable UUIDv7 token and pins the
// document hash and RNG seed it executed under. Every tick appends one
// record carrying the tick's content-addressed hash and its emitted
// command stream. Two runs of the same document with the same seed and
// input script must produce identical per-tick hashes; Verify compares
// two recorded runs and reports the first tick where they diverge.
//
// Storage is SQLite in WAL mode with a single writer connection.
package trace
