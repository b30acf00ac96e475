package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tapforge/minigame/internal/game"
)

func matchWith(ctx *evalContext, op game.Operator, conds ...game.Condition) bool {
	rule := &game.Rule{ID: "m", Triggers: game.TriggerSet{Operator: op, Conditions: conds}}
	return matchRule(ctx, rule)
}

func TestMatchRuleTruthTable(t *testing.T) {
	e, ctx := condContext(t, nil)
	e.state.Flags["door"] = true

	yes := game.FlagCondition{FlagID: "door", Equals: true}
	no := game.FlagCondition{FlagID: "door", Equals: false}

	assert.True(t, matchWith(ctx, game.OpAnd, yes, yes))
	assert.False(t, matchWith(ctx, game.OpAnd, yes, no))
	assert.False(t, matchWith(ctx, game.OpAnd, no, no))

	assert.True(t, matchWith(ctx, game.OpOr, yes, yes))
	assert.True(t, matchWith(ctx, game.OpOr, yes, no))
	assert.False(t, matchWith(ctx, game.OpOr, no, no))
}

func TestMatchRuleEmptyConditionLists(t *testing.T) {
	_, ctx := condContext(t, nil)

	assert.True(t, matchWith(ctx, game.OpAnd))
	assert.False(t, matchWith(ctx, game.OpOr))
	// Unknown operators fall back to AND semantics.
	assert.True(t, matchWith(ctx, game.Operator("xor")))
}

func TestMatchRuleNeverShortCircuits(t *testing.T) {
	// The random condition must be drawn even when the operator's outcome
	// is already decided, or the RNG stream position would depend on
	// condition ordering.
	rng := NewFixedRand(0.9, 0.9)
	e, ctx := condContext(t, rng)
	e.state.Flags["door"] = true

	yes := game.FlagCondition{FlagID: "door", Equals: true}
	no := game.FlagCondition{FlagID: "door", Equals: false}
	gamble := game.RandomCondition{Probability: 0.5}

	assert.False(t, matchWith(ctx, game.OpAnd, no, gamble))
	assert.Equal(t, 1, rng.Draws())

	assert.True(t, matchWith(ctx, game.OpOr, yes, gamble))
	assert.Equal(t, 2, rng.Draws())
}
