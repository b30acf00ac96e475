// Package harness provides a scenario-driven conformance framework for
// the rule engine.
//
// A scenario is a YAML file naming a document, an RNG seed, a scripted
// sequence of ticks (deltas plus host-reported touches), and assertions
// over the final state and the emitted command stream. Scenarios run the
// real engine; nothing is manufactured. Golden-file comparison of the
// per-tick trace (canonical JSON) pins the full deterministic trajectory,
// so any behavior drift shows up as a golden diff.
package harness
