package engine

import (
	"math"
	"sort"

	"github.com/tapforge/minigame/internal/game"
)

// gameState is the engine's live global state. Created from the document's
// initialState and mutated only by the action executor and the per-tick
// time advance.
type gameState struct {
	Score       int
	Lives       int
	Elapsed     float64
	PrevElapsed float64
	TimeLimit   *float64
	Flags       map[game.FlagID]bool
	Counters    map[game.CounterID]float64
	Terminal    game.Terminal
	Paused      bool
}

func newGameState(doc *game.Document) *gameState {
	s := &gameState{
		Score:    doc.InitialState.Score,
		Lives:    doc.InitialState.Lives,
		Flags:    make(map[game.FlagID]bool, len(doc.Flags)),
		Counters: make(map[game.CounterID]float64, len(doc.Counters)),
		Terminal: game.TerminalRunning,
	}
	if doc.InitialState.TimeLimit != nil {
		limit := *doc.InitialState.TimeLimit
		s.TimeLimit = &limit
	}
	for _, f := range doc.Flags {
		s.Flags[f.ID] = f.Initial
	}
	for _, c := range doc.Counters {
		s.Counters[c.ID] = c.Initial
	}
	return s
}

// snapshot deep-copies the state for the tick result. No component retains
// a reference to live state across tick boundaries.
func (s *gameState) snapshot() game.StateSnapshot {
	snap := game.StateSnapshot{
		Score:          s.Score,
		Lives:          s.Lives,
		ElapsedSeconds: s.Elapsed,
		Flags:          make(map[game.FlagID]bool, len(s.Flags)),
		Counters:       make(map[game.CounterID]float64, len(s.Counters)),
		Paused:         s.Paused,
		Terminal:       s.Terminal,
	}
	if s.TimeLimit != nil {
		limit := *s.TimeLimit
		snap.TimeLimit = &limit
	}
	for k, v := range s.Flags {
		snap.Flags[k] = v
	}
	for k, v := range s.Counters {
		snap.Counters[k] = v
	}
	return snap
}

// objectState is one object's live runtime view, seeded from the authored
// layout and mutated by actions and the per-tick animation/motion advance.
type objectState struct {
	ID       game.ObjectID
	Visible  bool
	X, Y     float64
	PrevX    float64
	PrevY    float64
	Width    float64
	Height   float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Opacity  float64

	Animations []game.Animation
	AnimIndex  int
	Frame      int
	PrevFrame  int
	AnimClock  float64
	LoopCount  int
	PrevLoops  int
	Playing    bool
	Speed      float64
	Loop       bool
	// startedTick marks the tick playback last began, for edge-triggered
	// animation-start conditions.
	startedTick int64
	// endedTick marks the tick a non-looping animation hit its final
	// frame, for edge-triggered animation-end conditions.
	endedTick int64

	motion *motionState
}

// newObjectState seeds runtime state from the layout. startTick is the
// tick number playback will first be observed on, so edge-triggered
// animation-start conditions fire for auto-started objects after both load
// and restart.
func newObjectState(layout game.ObjectLayout, startTick int64) *objectState {
	o := &objectState{
		ID:         layout.ID,
		Visible:    layout.IsVisible(),
		X:          layout.X,
		Y:          layout.Y,
		PrevX:      layout.X,
		PrevY:      layout.Y,
		Width:      layout.Width,
		Height:     layout.Height,
		ScaleX:     layout.ScaleX,
		ScaleY:     layout.ScaleY,
		Rotation:   layout.Rotation,
		Opacity:    layout.InitialOpacity(),
		Animations: layout.Animations,
		AnimIndex:  layout.InitialAnimation,
		Speed:      1,
	}
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	if len(layout.Animations) > 0 {
		anim := layout.Animations[layout.InitialAnimation]
		o.Loop = anim.Loop
		o.Playing = layout.AutoStart
		if layout.AutoStart {
			o.startedTick = startTick
		}
	}
	return o
}

// animation returns the current animation, or nil for animation-less
// objects.
func (o *objectState) animation() *game.Animation {
	if o.AnimIndex < 0 || o.AnimIndex >= len(o.Animations) {
		return nil
	}
	return &o.Animations[o.AnimIndex]
}

// bounds returns the object's scaled axis-aligned bounding box centered on
// its position.
func (o *objectState) bounds() game.Rect {
	hw := math.Abs(o.Width*o.ScaleX) / 2
	hh := math.Abs(o.Height*o.ScaleY) / 2
	return game.Rect{MinX: o.X - hw, MinY: o.Y - hh, MaxX: o.X + hw, MaxY: o.Y + hh}
}

func (o *objectState) snapshot() game.ObjectSnapshot {
	return game.ObjectSnapshot{
		ID:             o.ID,
		Visible:        o.Visible,
		X:              o.X,
		Y:              o.Y,
		ScaleX:         o.ScaleX,
		ScaleY:         o.ScaleY,
		Rotation:       o.Rotation,
		Opacity:        o.Opacity,
		AnimationIndex: o.AnimIndex,
		FrameIndex:     o.Frame,
		AnimElapsed:    o.AnimClock,
		LoopCount:      o.LoopCount,
		Playing:        o.Playing,
	}
}

// objectTable is the per-object runtime state table, iterated in stable
// document order.
type objectTable struct {
	order []game.ObjectID
	byID  map[game.ObjectID]*objectState
}

func newObjectTable(doc *game.Document, startTick int64) *objectTable {
	t := &objectTable{
		order: make([]game.ObjectID, 0, len(doc.Layout)),
		byID:  make(map[game.ObjectID]*objectState, len(doc.Layout)),
	}
	for _, layout := range doc.Layout {
		t.order = append(t.order, layout.ID)
		t.byID[layout.ID] = newObjectState(layout, startTick)
	}
	return t
}

// get returns the live state for id, or nil.
func (t *objectTable) get(id game.ObjectID) *objectState {
	return t.byID[id]
}

// each visits objects in document order.
func (t *objectTable) each(fn func(*objectState)) {
	for _, id := range t.order {
		fn(t.byID[id])
	}
}

// snapshots deep-copies every object's state, sorted by id for a stable
// wire form independent of layout order changes between documents.
func (t *objectTable) snapshots() []game.ObjectSnapshot {
	snaps := make([]game.ObjectSnapshot, 0, len(t.order))
	for _, id := range t.order {
		snaps = append(snaps, t.byID[id].snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}
