package game

import (
	"encoding/json"
	"fmt"
)

// ConditionKind names a condition variant.
type ConditionKind string

const (
	CondTouch     ConditionKind = "touch"
	CondTime      ConditionKind = "time"
	CondPosition  ConditionKind = "position"
	CondCollision ConditionKind = "collision"
	CondAnimation ConditionKind = "animation"
	CondFlag      ConditionKind = "flag"
	CondCounter   ConditionKind = "counter"
	CondGameState ConditionKind = "gameState"
	CondScore     ConditionKind = "score"
	CondRandom    ConditionKind = "random"
)

// Condition is the sealed trigger-condition union. Only the variants in
// this file implement it; evaluation type-switches exhaustively and treats
// anything else as malformed.
type Condition interface {
	Kind() ConditionKind
}

// TouchCondition fires on the tick the host reports a touch for the target.
// Target "self" (or empty) resolves to the rule's own target object.
type TouchCondition struct {
	Target    ObjectID       `json:"target,omitempty"`
	TouchType TouchEventType `json:"touchType,omitempty"` // empty means down
}

func (TouchCondition) Kind() ConditionKind { return CondTouch }

// TimeRange is an inclusive elapsed-seconds window.
type TimeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TimeCondition holds either an exact boundary (edge-triggered on the tick
// elapsedSeconds crosses it) or an inclusive range (level-triggered).
// Exactly one of Exact and Range must be set; both or neither is malformed.
type TimeCondition struct {
	Exact *float64   `json:"exact,omitempty"`
	Range *TimeRange `json:"range,omitempty"`
}

func (TimeCondition) Kind() ConditionKind { return CondTime }

// PositionMode selects edge direction for position conditions.
type PositionMode string

const (
	PositionEnter PositionMode = "enter"
	PositionExit  PositionMode = "exit"
)

// PositionCondition edge-triggers when the target object's position crosses
// into (enter) or out of (exit) the area between the previous tick and this
// one.
type PositionCondition struct {
	Target ObjectID     `json:"target,omitempty"`
	Area   Rect         `json:"area"`
	Mode   PositionMode `json:"mode"`
}

func (PositionCondition) Kind() ConditionKind { return CondPosition }

// CollisionCondition level-triggers while the target's and the other
// object's scaled bounding boxes overlap. Hidden objects never collide.
type CollisionCondition struct {
	Target      ObjectID `json:"target,omitempty"`
	OtherTarget ObjectID `json:"otherTarget"`
}

func (CollisionCondition) Kind() ConditionKind { return CondCollision }

// AnimationKind selects which animation predicate to test.
type AnimationKind string

const (
	AnimStart      AnimationKind = "start"
	AnimEnd        AnimationKind = "end"
	AnimFrame      AnimationKind = "frame"
	AnimFrameRange AnimationKind = "frameRange"
	AnimPlaying    AnimationKind = "playing"
	AnimStopped    AnimationKind = "stopped"
	AnimLoop       AnimationKind = "loop"
)

// FrameRange is an inclusive frame-index window.
type FrameRange struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// AnimationCondition reads live object animation state.
//
// start and end are edge-triggered (the tick playback began / the tick a
// non-looping animation reached its final frame). frame and frameRange are
// level-triggered on the current frame index, inclusive at both ends.
// playing and stopped are level-triggered. loop edge-triggers once, on the
// tick the completed-loop counter reaches LoopCount.
type AnimationCondition struct {
	Target         ObjectID      `json:"target,omitempty"`
	AnimKind       AnimationKind `json:"kind"`
	FrameNumber    *int          `json:"frameNumber,omitempty"`
	FrameRange     *FrameRange   `json:"frameRange,omitempty"`
	AnimationIndex *int          `json:"animationIndex,omitempty"`
	LoopCount      *int          `json:"loopCount,omitempty"`
}

func (AnimationCondition) Kind() ConditionKind { return CondAnimation }

// FlagCondition level-triggers while the flag equals the expected value.
type FlagCondition struct {
	FlagID FlagID `json:"flagId"`
	Equals bool   `json:"equals"`
}

func (FlagCondition) Kind() ConditionKind { return CondFlag }

// CounterCondition level-triggers while the comparison holds.
type CounterCondition struct {
	CounterID CounterID `json:"counterId"`
	Op        CompareOp `json:"op"`
	Value     float64   `json:"value"`
}

func (CounterCondition) Kind() ConditionKind { return CondCounter }

// GameStatus is the observable phase tested by gameState conditions.
// Terminal phases are not listed: rule evaluation stops once terminal, so a
// condition could never observe them.
type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusPaused  GameStatus = "paused"
)

// GameStateCondition level-triggers while the game is in the given phase.
type GameStateCondition struct {
	Status GameStatus `json:"status"`
}

func (GameStateCondition) Kind() ConditionKind { return CondGameState }

// ScoreCondition level-triggers while the comparison against the current
// score holds.
type ScoreCondition struct {
	Op    CompareOp `json:"op"`
	Value int       `json:"value"`
}

func (ScoreCondition) Kind() ConditionKind { return CondScore }

// RandomCondition draws exactly one RNG sample per evaluation and fires
// when the sample is below Probability. Draws are never cached: identical
// conditions evaluated on different ticks are independent events.
type RandomCondition struct {
	Probability float64 `json:"probability"`
}

func (RandomCondition) Kind() ConditionKind { return CondRandom }

// conditionEnvelope is the wire form: a type tag plus the variant's fields
// flattened alongside it.
type conditionEnvelope struct {
	Type ConditionKind `json:"type"`
}

// UnmarshalJSON decodes the tagged union for a trigger set's condition
// list. Unknown variant tags are rejected here so the closed union stays
// closed at the door.
func (t *TriggerSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Operator   Operator          `json:"operator"`
		Conditions []json.RawMessage `json:"conditions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Operator = raw.Operator
	t.Conditions = make([]Condition, 0, len(raw.Conditions))
	for i, rc := range raw.Conditions {
		cond, err := unmarshalCondition(rc)
		if err != nil {
			return fmt.Errorf("conditions[%d]: %w", i, err)
		}
		t.Conditions = append(t.Conditions, cond)
	}
	return nil
}

// MarshalJSON re-encodes the union with its type tags, so documents
// round-trip.
func (t TriggerSet) MarshalJSON() ([]byte, error) {
	conds := make([]json.RawMessage, len(t.Conditions))
	for i, c := range t.Conditions {
		b, err := marshalTagged(string(c.Kind()), c)
		if err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}
		conds[i] = b
	}
	return json.Marshal(struct {
		Operator   Operator          `json:"operator"`
		Conditions []json.RawMessage `json:"conditions"`
	}{t.Operator, conds})
}

func unmarshalCondition(data []byte) (Condition, error) {
	var env conditionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var target Condition
	switch env.Type {
	case CondTouch:
		target = &TouchCondition{}
	case CondTime:
		target = &TimeCondition{}
	case CondPosition:
		target = &PositionCondition{}
	case CondCollision:
		target = &CollisionCondition{}
	case CondAnimation:
		target = &AnimationCondition{}
	case CondFlag:
		target = &FlagCondition{}
	case CondCounter:
		target = &CounterCondition{}
	case CondGameState:
		target = &GameStateCondition{}
	case CondScore:
		target = &ScoreCondition{}
	case CondRandom:
		target = &RandomCondition{}
	default:
		return nil, fmt.Errorf("unknown condition type %q", env.Type)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("condition %q: %w", env.Type, err)
	}
	return derefCondition(target), nil
}

// derefCondition converts the pointer used for decoding back to the value
// form the union carries.
func derefCondition(c Condition) Condition {
	switch v := c.(type) {
	case *TouchCondition:
		return *v
	case *TimeCondition:
		return *v
	case *PositionCondition:
		return *v
	case *CollisionCondition:
		return *v
	case *AnimationCondition:
		return *v
	case *FlagCondition:
		return *v
	case *CounterCondition:
		return *v
	case *GameStateCondition:
		return *v
	case *ScoreCondition:
		return *v
	case *RandomCondition:
		return *v
	default:
		return c
	}
}

// marshalTagged injects a "type" tag into a variant's JSON object.
func marshalTagged(kind string, v any) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", kind))
	return json.Marshal(fields)
}
