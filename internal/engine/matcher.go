package engine

import "github.com/tapforge/minigame/internal/game"

// matchRule reports whether a rule's trigger set holds this tick.
//
// AND requires every condition true; OR requires at least one. An empty
// condition list is vacuously true under AND semantics and fires every
// tick; it is not rejected at this layer.
//
// Every condition is evaluated unconditionally - no short-circuiting. This
// keeps the RNG draw count of random conditions independent of operator
// and ordering; it is a determinism requirement, not a performance choice.
// An unknown operator falls back to AND, matching the vacuous-truth rule
// for empty lists.
func matchRule(ctx *evalContext, rule *game.Rule) bool {
	allTrue := true
	anyTrue := false
	for _, cond := range rule.Triggers.Conditions {
		if evaluateCondition(ctx, cond) {
			anyTrue = true
		} else {
			allTrue = false
		}
	}

	if rule.Triggers.Operator == game.OpOr {
		return anyTrue
	}
	return allTrue
}
