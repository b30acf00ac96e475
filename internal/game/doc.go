// Package game defines the document model shared by every other package:
// the authored rule/trigger/action document, the condition and action
// tagged unions, runtime snapshot types, side-effect commands, load-time
// reference validation, and canonical JSON hashing.
//
// This package contains type definitions and pure functions only. All other
// internal packages import game; game imports nothing internal. This keeps
// the document model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Conditions and actions are sealed interfaces (closed unions). Decoding
//     rejects unknown variants; evaluation type-switches exhaustively.
//   - All JSON tags use camelCase to match the authoring tool's output.
//   - Ordering is logical: rules carry their document index for the
//     priority tie-break, ticks are numbered by a sequence counter, and
//     nothing depends on wall-clock time.
package game
