package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapforge/minigame/internal/game"
)

func testObjects() *objectTable {
	return newObjectTable(testDoc(), 1)
}

func TestStartMotionRejectsMalformedParameters(t *testing.T) {
	o := &objectState{ID: "ball", X: 10, Y: 10}

	tests := []struct {
		name string
		act  game.MoveAction
	}{
		{"straight without destination or angle", game.MoveAction{Pattern: game.MoveStraight, Speed: 5}},
		{"bounce without bounds", game.MoveAction{Pattern: game.MoveBounce, Speed: 5}},
		{"orbit without center", game.MoveAction{Pattern: game.MoveOrbit, Radius: fptr(10)}},
		{"orbit without radius", game.MoveAction{Pattern: game.MoveOrbit, Center: &game.Point{}}},
		{"approach without follow", game.MoveAction{Pattern: game.MoveApproach, Speed: 5}},
		{"unknown pattern", game.MoveAction{Pattern: "zigzag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, startMotion(tt.act, o, NewFixedRand(0.5)))
		})
	}
}

func TestStraightMotionArrivesAtDestination(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball") // starts at (10,10)
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveStraight,
		Speed:   5,
		To:      &game.Point{X: 10, Y: 25},
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 1, objects, nil)
	assert.Equal(t, 15.0, o.Y)

	advanceMotion(o, 1, objects, nil)
	advanceMotion(o, 1, objects, nil)
	assert.Equal(t, game.Point{X: 10, Y: 25}, game.Point{X: o.X, Y: o.Y})
	assert.Nil(t, o.motion) // arrival clears the motion

	// No drift after arrival.
	advanceMotion(o, 1, objects, nil)
	assert.Equal(t, 25.0, o.Y)
}

func TestStraightMotionAlongAngle(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveStraight,
		Speed:   4,
		Angle:   fptr(90),
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 0.5, objects, nil)
	assert.InDelta(t, 10, o.X, 1e-9)
	assert.InDelta(t, 12, o.Y, 1e-9)
}

func TestMotionDurationExpires(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")
	o.motion = startMotion(game.MoveAction{
		Pattern:  game.MoveStraight,
		Speed:    4,
		Angle:    fptr(0),
		Duration: fptr(1),
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 0.6, objects, nil)
	assert.InDelta(t, 12.4, o.X, 1e-9)

	// The expiring tick clears the motion without moving.
	advanceMotion(o, 0.6, objects, nil)
	assert.InDelta(t, 12.4, o.X, 1e-9)
	assert.Nil(t, o.motion)
}

func TestBounceReflectsAtBounds(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")
	o.X, o.Y = 19, 10
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveBounce,
		Speed:   10,
		Angle:   fptr(0),
		Bounds:  &game.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20},
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 0.5, objects, nil)
	assert.Equal(t, 20.0, o.X) // clamped to the bound on the reflecting tick

	advanceMotion(o, 0.5, objects, nil)
	assert.Equal(t, 15.0, o.X) // moving away after reflection
}

func TestOrbitCirclesCenter(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")
	o.X, o.Y = 10, 0 // bearing 0 around the origin
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveOrbit,
		Speed:   90, // degrees per second
		Center:  &game.Point{X: 0, Y: 0},
		Radius:  fptr(10),
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 1, objects, nil)
	assert.InDelta(t, 0, o.X, 1e-9)
	assert.InDelta(t, 10, o.Y, 1e-9)

	advanceMotion(o, 1, objects, nil)
	assert.InDelta(t, -10, o.X, 1e-9)
	assert.InDelta(t, 0, o.Y, 1e-9)
}

func TestApproachTracksMovingTarget(t *testing.T) {
	objects := testObjects()
	// ball starts at (10,10), wall at (30,10).
	o := objects.get("ball")
	wall := objects.get("wall")
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveApproach,
		Speed:   5,
		Follow:  "wall",
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 1, objects, nil)
	assert.InDelta(t, 15, o.X, 1e-9)
	assert.InDelta(t, 10, o.Y, 1e-9)

	// Velocity is recomputed against the target's live position each tick.
	wall.X, wall.Y = 15, 30
	advanceMotion(o, 1, objects, nil)
	assert.InDelta(t, 15, o.X, 1e-9)
	assert.InDelta(t, 15, o.Y, 1e-9)

	// Close enough to snap; the motion keeps following.
	wall.X, wall.Y = 15, 17
	advanceMotion(o, 1, objects, nil)
	assert.Equal(t, 17.0, o.Y)
	assert.NotNil(t, o.motion)
}

func TestApproachStopsWhenTargetVanishes(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveApproach,
		Speed:   5,
		Follow:  "ghost",
	}, o, nil)
	require.NotNil(t, o.motion)

	advanceMotion(o, 1, objects, nil)
	assert.Nil(t, o.motion)
	assert.Equal(t, 10.0, o.X)
}

func TestWanderResamplesOnInterval(t *testing.T) {
	objects := testObjects()
	o := objects.get("ball")

	// Sample 0 points the velocity along +X; 0.25 turns it to +Y.
	rng := NewFixedRand(0, 0.25)
	o.motion = startMotion(game.MoveAction{
		Pattern: game.MoveWander,
		Speed:   4,
	}, o, rng)
	require.NotNil(t, o.motion)
	assert.Equal(t, 1, rng.Draws()) // initial direction drawn at start

	advanceMotion(o, 0.6, objects, rng)
	assert.Equal(t, 1, rng.Draws()) // interval (default 1s) not yet elapsed
	assert.InDelta(t, 12.4, o.X, 1e-9)

	advanceMotion(o, 0.6, objects, rng)
	assert.Equal(t, 2, rng.Draws())
	assert.InDelta(t, 12.4, o.X, 1e-9) // resampled direction is +Y
	assert.InDelta(t, 12.4, o.Y, 1e-9)
}
