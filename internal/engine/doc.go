// Package engine implements the mini-game rule evaluation engine.
//
// The engine is the runtime heart of the system: it matches declarative
// trigger conditions against live game state every tick and fires
// declarative actions, emitting side-effect commands for the host.
//
// ARCHITECTURE:
//
// Single-Threaded Tick Loop:
// One Tick(delta, touches) call fully evaluates the rule set before
// returning; there is no suspension point inside a tick. The host drives
// ticks (typically at display refresh rate); the engine performs no I/O
// and never blocks. This ensures:
// - Predictable rule evaluation order
// - Reproducible state trajectories on replay
// - No locks: the GameState/ObjectState pair is owned by the scheduler
//   for one tick's duration, and snapshots handed out are deep copies
//
// Tick Processing Flow:
// 1. Advance elapsed time, motions, and animation clocks (unless paused)
// 2. If terminal, return a snapshot with no commands
// 3. Evaluate enabled rules ordered by (priority asc, document order)
// 4. Apply matched rules' actions in declared order; earlier rules' writes
//    are visible to later rules in the same tick
// 5. Cap host-facing commands at the document's effect limit
//
// DETERMINISM:
//
// All trigger conditions in a rule are evaluated unconditionally - no
// short-circuiting - so the RNG draw count of random conditions is
// independent of operator and ordering. Identical (seed, input-event
// sequence) against the same document produces byte-identical state
// trajectories across runs.
//
// Tick never panics: malformed condition payloads evaluate false, actions
// on missing objects are skipped, and any internal invariant violation
// degrades to a diagnostic plus a still-running engine, since an aborted
// tick would strand the player mid-game.
package engine
