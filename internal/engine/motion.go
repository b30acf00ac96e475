package engine

import (
	"math"

	"github.com/tapforge/minigame/internal/game"
)

// motionState is the minimal local state a move action leaves behind. The
// engine advances it each tick; the host only ever saw the one Move
// command emitted when the motion started.
type motionState struct {
	pattern game.MovePattern
	speed   float64

	// remaining is the seconds left before the motion expires; nil means
	// unbounded.
	remaining *float64

	// straight / bounce velocity
	vx, vy float64
	// straight destination, nil when moving along an angle
	dest *game.Point

	// wander resample bookkeeping
	interval     float64
	intervalLeft float64

	// bounce bounds
	bounds game.Rect

	// orbit
	center       game.Point
	radius       float64
	orbitAngle   float64 // radians
	angularSpeed float64 // radians per second

	// approach target
	follow game.ObjectID
}

const degToRad = math.Pi / 180

// startMotion builds motion state from a move action. Teleport is handled
// by the executor directly and never reaches here. Returns nil when the
// action's pattern parameters are malformed.
func startMotion(act game.MoveAction, o *objectState, rng Rand) *motionState {
	m := &motionState{pattern: act.Pattern, speed: act.Speed}
	if act.Duration != nil {
		d := *act.Duration
		m.remaining = &d
	}

	switch act.Pattern {
	case game.MoveStraight:
		switch {
		case act.To != nil:
			dest := *act.To
			m.dest = &dest
			m.vx, m.vy = velocityToward(o.X, o.Y, dest.X, dest.Y, act.Speed)
		case act.Angle != nil:
			rad := *act.Angle * degToRad
			m.vx = math.Cos(rad) * act.Speed
			m.vy = math.Sin(rad) * act.Speed
		default:
			return nil
		}

	case game.MoveWander:
		m.interval = 1
		if act.Interval != nil && *act.Interval > 0 {
			m.interval = *act.Interval
		}
		m.resampleDirection(rng)
		m.intervalLeft = m.interval

	case game.MoveBounce:
		if act.Bounds == nil {
			return nil
		}
		m.bounds = *act.Bounds
		angle := 45.0
		if act.Angle != nil {
			angle = *act.Angle
		}
		rad := angle * degToRad
		m.vx = math.Cos(rad) * act.Speed
		m.vy = math.Sin(rad) * act.Speed

	case game.MoveOrbit:
		if act.Center == nil || act.Radius == nil {
			return nil
		}
		m.center = *act.Center
		m.radius = *act.Radius
		m.angularSpeed = act.Speed * degToRad
		// Start from the object's current bearing around the center so the
		// orbit picks up without a positional jump.
		m.orbitAngle = math.Atan2(o.Y-m.center.Y, o.X-m.center.X)

	case game.MoveApproach:
		if act.Follow == "" {
			return nil
		}
		m.follow = act.Follow

	default:
		return nil
	}
	return m
}

// resampleDirection draws one sample and points the velocity at a uniform
// random bearing.
func (m *motionState) resampleDirection(rng Rand) {
	angle := rng.Float64() * 2 * math.Pi
	m.vx = math.Cos(angle) * m.speed
	m.vy = math.Sin(angle) * m.speed
}

// advanceMotion moves one object along its active motion. Runs in the
// pre-rule advance phase together with the animation clocks. rng is drawn
// only by wander resamples, in stable document order.
func advanceMotion(o *objectState, delta float64, objects *objectTable, rng Rand) {
	m := o.motion
	if m == nil {
		return
	}

	if m.remaining != nil {
		*m.remaining -= delta
		if *m.remaining <= 0 {
			o.motion = nil
			return
		}
	}

	switch m.pattern {
	case game.MoveStraight:
		if m.dest != nil {
			step := m.speed * delta
			if dist(o.X, o.Y, m.dest.X, m.dest.Y) <= step {
				o.X, o.Y = m.dest.X, m.dest.Y
				o.motion = nil
				return
			}
		}
		o.X += m.vx * delta
		o.Y += m.vy * delta

	case game.MoveWander:
		m.intervalLeft -= delta
		if m.intervalLeft <= 0 {
			m.resampleDirection(rng)
			m.intervalLeft += m.interval
		}
		o.X += m.vx * delta
		o.Y += m.vy * delta

	case game.MoveBounce:
		o.X += m.vx * delta
		o.Y += m.vy * delta
		if o.X < m.bounds.MinX {
			o.X = m.bounds.MinX
			m.vx = math.Abs(m.vx)
		} else if o.X > m.bounds.MaxX {
			o.X = m.bounds.MaxX
			m.vx = -math.Abs(m.vx)
		}
		if o.Y < m.bounds.MinY {
			o.Y = m.bounds.MinY
			m.vy = math.Abs(m.vy)
		} else if o.Y > m.bounds.MaxY {
			o.Y = m.bounds.MaxY
			m.vy = -math.Abs(m.vy)
		}

	case game.MoveOrbit:
		m.orbitAngle += m.angularSpeed * delta
		o.X = m.center.X + math.Cos(m.orbitAngle)*m.radius
		o.Y = m.center.Y + math.Sin(m.orbitAngle)*m.radius

	case game.MoveApproach:
		target := objects.get(m.follow)
		if target == nil {
			o.motion = nil
			return
		}
		step := m.speed * delta
		if dist(o.X, o.Y, target.X, target.Y) <= step {
			o.X, o.Y = target.X, target.Y
			return
		}
		vx, vy := velocityToward(o.X, o.Y, target.X, target.Y, m.speed)
		o.X += vx * delta
		o.Y += vy * delta
	}
}

func velocityToward(x, y, tx, ty, speed float64) (float64, float64) {
	d := dist(x, y, tx, ty)
	if d == 0 {
		return 0, 0
	}
	return (tx - x) / d * speed, (ty - y) / d * speed
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
