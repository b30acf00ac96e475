package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerSetUnmarshalVariants(t *testing.T) {
	raw := `{
		"operator": "and",
		"conditions": [
			{"type": "touch", "target": "ball", "touchType": "down"},
			{"type": "time", "exact": 3.0},
			{"type": "time", "range": {"min": 2.7, "max": 3.3}},
			{"type": "position", "target": "ball", "area": {"minX": 0, "minY": 0, "maxX": 10, "maxY": 10}, "mode": "enter"},
			{"type": "collision", "otherTarget": "wall"},
			{"type": "animation", "kind": "frameRange", "frameRange": {"lo": 2, "hi": 5}},
			{"type": "flag", "flagId": "door", "equals": true},
			{"type": "counter", "counterId": "hits", "op": "gte", "value": 3},
			{"type": "gameState", "status": "playing"},
			{"type": "score", "op": "gt", "value": 100},
			{"type": "random", "probability": 0.3}
		]
	}`

	var ts TriggerSet
	require.NoError(t, json.Unmarshal([]byte(raw), &ts))
	require.Len(t, ts.Conditions, 11)
	assert.Equal(t, OpAnd, ts.Operator)

	touch, ok := ts.Conditions[0].(TouchCondition)
	require.True(t, ok)
	assert.Equal(t, ObjectID("ball"), touch.Target)
	assert.Equal(t, TouchDown, touch.TouchType)

	exact, ok := ts.Conditions[1].(TimeCondition)
	require.True(t, ok)
	require.NotNil(t, exact.Exact)
	assert.Equal(t, 3.0, *exact.Exact)
	assert.Nil(t, exact.Range)

	rng, ok := ts.Conditions[2].(TimeCondition)
	require.True(t, ok)
	require.NotNil(t, rng.Range)
	assert.Equal(t, 2.7, rng.Range.Min)
	assert.Equal(t, 3.3, rng.Range.Max)

	pos, ok := ts.Conditions[3].(PositionCondition)
	require.True(t, ok)
	assert.Equal(t, PositionEnter, pos.Mode)
	assert.Equal(t, Rect{MaxX: 10, MaxY: 10}, pos.Area)

	coll, ok := ts.Conditions[4].(CollisionCondition)
	require.True(t, ok)
	assert.Equal(t, ObjectID("wall"), coll.OtherTarget)
	assert.Empty(t, coll.Target) // resolves to rule target at evaluation

	anim, ok := ts.Conditions[5].(AnimationCondition)
	require.True(t, ok)
	assert.Equal(t, AnimFrameRange, anim.AnimKind)
	require.NotNil(t, anim.FrameRange)
	assert.Equal(t, FrameRange{Lo: 2, Hi: 5}, *anim.FrameRange)

	flag, ok := ts.Conditions[6].(FlagCondition)
	require.True(t, ok)
	assert.True(t, flag.Equals)

	counter, ok := ts.Conditions[7].(CounterCondition)
	require.True(t, ok)
	assert.Equal(t, CmpGte, counter.Op)

	gs, ok := ts.Conditions[8].(GameStateCondition)
	require.True(t, ok)
	assert.Equal(t, StatusPlaying, gs.Status)

	score, ok := ts.Conditions[9].(ScoreCondition)
	require.True(t, ok)
	assert.Equal(t, 100, score.Value)

	random, ok := ts.Conditions[10].(RandomCondition)
	require.True(t, ok)
	assert.Equal(t, 0.3, random.Probability)
}

func TestTriggerSetUnknownConditionType(t *testing.T) {
	raw := `{"operator": "and", "conditions": [{"type": "telepathy"}]}`
	var ts TriggerSet
	err := json.Unmarshal([]byte(raw), &ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestTriggerSetRoundTrip(t *testing.T) {
	exact := 3.0
	ts := TriggerSet{
		Operator: OpOr,
		Conditions: []Condition{
			TouchCondition{Target: "ball"},
			TimeCondition{Exact: &exact},
			RandomCondition{Probability: 0.5},
		},
	}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"touch"`)
	assert.Contains(t, string(data), `"type":"time"`)
	assert.Contains(t, string(data), `"type":"random"`)

	var back TriggerSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ts.Operator, back.Operator)
	assert.Equal(t, ts.Conditions, back.Conditions)
}

func TestCompareOp(t *testing.T) {
	tests := []struct {
		op        CompareOp
		got, want float64
		expected  bool
	}{
		{CmpEq, 3, 3, true},
		{CmpEq, 3, 4, false},
		{CmpNe, 3, 4, true},
		{CmpLt, 2, 3, true},
		{CmpLt, 3, 3, false},
		{CmpLte, 3, 3, true},
		{CmpGt, 4, 3, true},
		{CmpGte, 3, 3, true},
		{CompareOp("spaceship"), 1, 1, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.op.Compare(tt.got, tt.want), "%s(%v,%v)", tt.op, tt.got, tt.want)
	}
}
