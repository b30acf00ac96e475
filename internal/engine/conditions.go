package engine

import (
	"github.com/tapforge/minigame/internal/game"
)

// touchKey identifies one host-reported touch for set lookup.
type touchKey struct {
	object game.ObjectID
	typ    game.TouchEventType
}

// evalContext carries everything one condition evaluation may read. It is
// rebuilt per rule so self-references and diagnostics resolve against the
// rule being evaluated. State and objects are read through the engine, not
// captured, because a restart action replaces them mid-tick.
type evalContext struct {
	e          *Engine
	tick       int64
	touches    map[touchKey]bool
	ruleTarget game.ObjectID
	ruleID     string
}

func (ctx *evalContext) state() *gameState     { return ctx.e.state }
func (ctx *evalContext) objects() *objectTable { return ctx.e.objects }

// diag appends one diagnostic for the current rule.
func (ctx *evalContext) diag(code DiagCode, format string, args ...any) {
	ctx.e.addDiagnostic(code, ctx.ruleID, format, args...)
}

// resolveTarget maps "self" (or an empty reference) to the rule's target
// object.
func (ctx *evalContext) resolveTarget(id game.ObjectID) game.ObjectID {
	if id == "" || id == game.SelfTarget {
		return ctx.ruleTarget
	}
	return id
}

// object looks up a referenced object's live state, diagnosing a miss.
func (ctx *evalContext) object(id game.ObjectID) *objectState {
	resolved := ctx.resolveTarget(id)
	o := ctx.objects().get(resolved)
	if o == nil {
		ctx.diag(DiagMissingObject, "object %q not in runtime table", resolved)
	}
	return o
}

// validCompareOps guards against comparator typos that survive decoding.
var validCompareOps = map[game.CompareOp]bool{
	game.CmpEq: true, game.CmpNe: true, game.CmpLt: true,
	game.CmpLte: true, game.CmpGt: true, game.CmpGte: true,
}

// evaluateCondition is the pure condition evaluator: (condition, state) to
// bool. Malformed payloads evaluate to false and emit one diagnostic; they
// never abort evaluation.
func evaluateCondition(ctx *evalContext, cond game.Condition) bool {
	switch c := cond.(type) {
	case game.TouchCondition:
		// Edge-triggered: only the events the host reported for this tick
		// count, never polled pointer state.
		target := ctx.resolveTarget(c.Target)
		typ := c.TouchType
		if typ == "" {
			typ = game.TouchDown
		}
		return ctx.touches[touchKey{object: target, typ: typ}]

	case game.TimeCondition:
		return evaluateTime(ctx, c)

	case game.PositionCondition:
		o := ctx.object(c.Target)
		if o == nil {
			return false
		}
		prevIn := c.Area.Contains(game.Point{X: o.PrevX, Y: o.PrevY})
		nowIn := c.Area.Contains(game.Point{X: o.X, Y: o.Y})
		switch c.Mode {
		case game.PositionEnter:
			return !prevIn && nowIn
		case game.PositionExit:
			return prevIn && !nowIn
		default:
			ctx.diag(DiagMalformedCondition, "position condition has unknown mode %q", c.Mode)
			return false
		}

	case game.CollisionCondition:
		a := ctx.object(c.Target)
		b := ctx.object(c.OtherTarget)
		if a == nil || b == nil {
			return false
		}
		// Hidden objects never collide.
		if !a.Visible || !b.Visible {
			return false
		}
		return a.bounds().Overlaps(b.bounds())

	case game.AnimationCondition:
		return evaluateAnimation(ctx, c)

	case game.FlagCondition:
		return ctx.state().Flags[c.FlagID] == c.Equals

	case game.CounterCondition:
		if !validCompareOps[c.Op] {
			ctx.diag(DiagMalformedCondition, "counter condition has unknown op %q", c.Op)
			return false
		}
		return c.Op.Compare(ctx.state().Counters[c.CounterID], c.Value)

	case game.GameStateCondition:
		switch c.Status {
		case game.StatusPlaying:
			return !ctx.state().Paused
		case game.StatusPaused:
			return ctx.state().Paused
		default:
			ctx.diag(DiagMalformedCondition, "gameState condition has unknown status %q", c.Status)
			return false
		}

	case game.ScoreCondition:
		if !validCompareOps[c.Op] {
			ctx.diag(DiagMalformedCondition, "score condition has unknown op %q", c.Op)
			return false
		}
		return c.Op.Compare(float64(ctx.state().Score), float64(c.Value))

	case game.RandomCondition:
		// Exactly one independent sample per evaluation call, never
		// cached. The draw happens even for degenerate probabilities so
		// the stream position stays schedule-independent.
		if ctx.e.rng == nil {
			ctx.diag(DiagRandUnavailable, "random condition with no RNG")
			return false
		}
		sample := ctx.e.rng.Float64()
		return sample < c.Probability

	default:
		ctx.diag(DiagMalformedCondition, "unknown condition variant %T", cond)
		return false
	}
}

// evaluateTime handles both the edge-triggered exact boundary and the
// level-triggered inclusive range.
func evaluateTime(ctx *evalContext, c game.TimeCondition) bool {
	switch {
	case c.Exact != nil && c.Range != nil:
		ctx.diag(DiagMalformedCondition, "time condition has both exact and range")
		return false
	case c.Exact != nil:
		// Fires the tick elapsedSeconds crosses the boundary within that
		// tick's delta.
		t := *c.Exact
		return ctx.state().PrevElapsed < t && t <= ctx.state().Elapsed
	case c.Range != nil:
		return ctx.state().Elapsed >= c.Range.Min && ctx.state().Elapsed <= c.Range.Max
	default:
		ctx.diag(DiagMalformedCondition, "time condition has neither exact nor range")
		return false
	}
}

// evaluateAnimation reads live object animation state per kind.
func evaluateAnimation(ctx *evalContext, c game.AnimationCondition) bool {
	o := ctx.object(c.Target)
	if o == nil {
		return false
	}
	if c.AnimationIndex != nil && o.AnimIndex != *c.AnimationIndex {
		return false
	}

	switch c.AnimKind {
	case game.AnimStart:
		return o.startedTick == ctx.tick
	case game.AnimEnd:
		return o.endedTick == ctx.tick
	case game.AnimFrame:
		if c.FrameNumber == nil {
			ctx.diag(DiagMalformedCondition, "animation frame condition missing frameNumber")
			return false
		}
		return o.Frame == *c.FrameNumber
	case game.AnimFrameRange:
		if c.FrameRange == nil {
			ctx.diag(DiagMalformedCondition, "animation frameRange condition missing bounds")
			return false
		}
		return o.Frame >= c.FrameRange.Lo && o.Frame <= c.FrameRange.Hi
	case game.AnimPlaying:
		return o.Playing
	case game.AnimStopped:
		return !o.Playing
	case game.AnimLoop:
		if c.LoopCount == nil {
			ctx.diag(DiagMalformedCondition, "animation loop condition missing loopCount")
			return false
		}
		// Edge-triggered: fires once, the tick the completed-loop counter
		// reaches the target.
		return o.PrevLoops < *c.LoopCount && o.LoopCount >= *c.LoopCount
	default:
		ctx.diag(DiagMalformedCondition, "animation condition has unknown kind %q", c.AnimKind)
		return false
	}
}
