package game

// Identifier types for the declarations a document may reference.
// Keeping them distinct makes reference-validation signatures honest.
type (
	// FlagID names a boolean flag declared in the document.
	FlagID string
	// CounterID names a numeric counter declared in the document.
	CounterID string
	// ObjectID names an object placed in the layout.
	ObjectID string
	// SoundID names a sound asset. The engine never inspects asset bytes;
	// sounds are referenced by opaque id and resolved by the host.
	SoundID string
)

// SelfTarget is the reserved object reference that resolves to the rule's
// own target object at evaluation time.
const SelfTarget ObjectID = "self"

// Document is the immutable rule/trigger/action document produced by the
// authoring tool. It is decoded once, validated once, and never mutated by
// the engine; all runtime state is seeded from it.
type Document struct {
	Title                string         `json:"title,omitempty"`
	InitialState         InitialState   `json:"initialState"`
	Layout               []ObjectLayout `json:"layout"`
	Flags                []FlagDecl     `json:"flags,omitempty"`
	Counters             []CounterDecl  `json:"counters,omitempty"`
	Sounds               []SoundDecl    `json:"sounds,omitempty"`
	Rules                []Rule         `json:"rules"`
	MaxConcurrentEffects int            `json:"maxConcurrentEffects,omitempty"`
}

// InitialState seeds the GameState at load and on restart.
type InitialState struct {
	Score     int      `json:"score"`
	Lives     int      `json:"lives"`
	TimeLimit *float64 `json:"timeLimit,omitempty"`
}

// FlagDecl declares a boolean flag and its initial value.
type FlagDecl struct {
	ID      FlagID `json:"id"`
	Initial bool   `json:"initial"`
}

// CounterDecl declares a numeric counter and its initial value.
type CounterDecl struct {
	ID      CounterID `json:"id"`
	Initial float64   `json:"initial"`
}

// SoundDecl declares a sound asset id known to the host.
type SoundDecl struct {
	ID SoundID `json:"id"`
}

// ObjectLayout is the authored placement of one object. Width and height
// describe the unscaled bounding box used for collision and area tests.
type ObjectLayout struct {
	ID         ObjectID    `json:"id"`
	Visible    *bool       `json:"visible,omitempty"` // nil means visible
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	ScaleX     float64     `json:"scaleX,omitempty"` // 0 means 1
	ScaleY     float64     `json:"scaleY,omitempty"` // 0 means 1
	Rotation   float64     `json:"rotation,omitempty"`
	Opacity    *float64    `json:"opacity,omitempty"` // nil means 1
	Animations []Animation `json:"animations,omitempty"`
	// InitialAnimation selects which animation plays first; AutoStart
	// controls whether its clock runs from tick one.
	InitialAnimation int  `json:"initialAnimation,omitempty"`
	AutoStart        bool `json:"autoStart,omitempty"`
}

// IsVisible reports the authored initial visibility (default true).
func (o ObjectLayout) IsVisible() bool {
	return o.Visible == nil || *o.Visible
}

// InitialOpacity reports the authored initial opacity (default 1).
func (o ObjectLayout) InitialOpacity() float64 {
	if o.Opacity == nil {
		return 1
	}
	return *o.Opacity
}

// Animation describes one frame sequence an object can play.
type Animation struct {
	FrameCount int     `json:"frameCount"`
	FPS        float64 `json:"fps"`
	Loop       bool    `json:"loop"`
}

// Operator combines a rule's conditions.
type Operator string

const (
	// OpAnd fires only when every condition holds. An empty condition list
	// is vacuously true under AND and fires every tick.
	OpAnd Operator = "and"
	// OpOr fires when at least one condition holds.
	OpOr Operator = "or"
)

// TriggerSet is a rule's condition list with its combining operator.
type TriggerSet struct {
	Operator   Operator    `json:"operator"`
	Conditions []Condition `json:"conditions"`
}

// Rule pairs a trigger set with an ordered action list. Rules are immutable
// once loaded; enablement is authored, not toggled at runtime.
type Rule struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Enabled        *bool      `json:"enabled,omitempty"` // nil means enabled
	Priority       int        `json:"priority"`
	TargetObjectID ObjectID   `json:"targetObjectId,omitempty"`
	Triggers       TriggerSet `json:"triggers"`
	Actions        []Action   `json:"actions"`

	// index is the rule's position in the document, recorded at decode
	// time. Lower priority fires first; equal priorities fall back to
	// document order.
	index int
}

// IsEnabled reports whether the rule participates in evaluation (default true).
func (r Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Index returns the rule's document position, the priority tie-break key.
func (r Rule) Index() int {
	return r.index
}

// CompareOp is the comparison used by counter, score, and gameState
// conditions.
type CompareOp string

const (
	CmpEq  CompareOp = "eq"
	CmpNe  CompareOp = "ne"
	CmpLt  CompareOp = "lt"
	CmpLte CompareOp = "lte"
	CmpGt  CompareOp = "gt"
	CmpGte CompareOp = "gte"
)

// Compare applies op to (got, want). Unknown operators report false; the
// evaluator treats that as a malformed payload.
func (op CompareOp) Compare(got, want float64) bool {
	switch op {
	case CmpEq:
		return got == want
	case CmpNe:
		return got != want
	case CmpLt:
		return got < want
	case CmpLte:
		return got <= want
	case CmpGt:
		return got > want
	case CmpGte:
		return got >= want
	default:
		return false
	}
}

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned area, inclusive at all edges.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether p lies inside the rect (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Overlaps reports whether two rects intersect (touching edges count).
func (r Rect) Overlaps(other Rect) bool {
	return r.MinX <= other.MaxX && other.MinX <= r.MaxX &&
		r.MinY <= other.MaxY && other.MinY <= r.MaxY
}

// TouchEventType distinguishes host-reported touch phases.
type TouchEventType string

const (
	TouchDown TouchEventType = "down"
	TouchUp   TouchEventType = "up"
)

// TouchEvent is one host-reported touch on an object for the current tick.
// Touch conditions are edge-triggered: they see only the events passed to
// this tick, never polled pointer state.
type TouchEvent struct {
	ObjectID ObjectID       `json:"objectId"`
	Type     TouchEventType `json:"type,omitempty"` // empty means down
}

// EventType returns the touch phase (default down).
func (e TouchEvent) EventType() TouchEventType {
	if e.Type == "" {
		return TouchDown
	}
	return e.Type
}
