package game

import (
	"encoding/json"
	"fmt"
)

// ActionKind names an action variant.
type ActionKind string

const (
	ActSuccess         ActionKind = "success"
	ActFailure         ActionKind = "failure"
	ActPause           ActionKind = "pause"
	ActRestart         ActionKind = "restart"
	ActPlaySound       ActionKind = "playSound"
	ActPlayBGM         ActionKind = "playBGM"
	ActStopSound       ActionKind = "stopSound"
	ActMove            ActionKind = "move"
	ActShow            ActionKind = "show"
	ActHide            ActionKind = "hide"
	ActSwitchAnimation ActionKind = "switchAnimation"
	ActEffect          ActionKind = "effect"
	ActSetFlag         ActionKind = "setFlag"
	ActToggleFlag      ActionKind = "toggleFlag"
	ActCounterOp       ActionKind = "counterOp"
)

// Action is the sealed action union. Purely state-mutating variants update
// state synchronously; host-facing variants additionally emit one
// side-effect command per application.
type Action interface {
	ActionKind() ActionKind
}

// SuccessAction transitions to the Success terminal state, optionally
// adding to the score first. Idempotent once terminal.
type SuccessAction struct {
	Score *int `json:"score,omitempty"`
}

func (SuccessAction) ActionKind() ActionKind { return ActSuccess }

// FailureAction transitions to the Failure terminal state. Idempotent once
// terminal.
type FailureAction struct{}

func (FailureAction) ActionKind() ActionKind { return ActFailure }

// PauseAction toggles the paused phase. While paused the timer and
// animation clocks freeze, but rules keep evaluating so an authored
// un-pause trigger can fire.
type PauseAction struct{}

func (PauseAction) ActionKind() ActionKind { return ActPause }

// RestartAction reinitializes all state from the document's initialState
// and layout. The injected RNG stream keeps its position.
type RestartAction struct{}

func (RestartAction) ActionKind() ActionKind { return ActRestart }

// PlaySoundAction emits a PlaySound command. Volume defaults to 1.
type PlaySoundAction struct {
	SoundID SoundID  `json:"soundId"`
	Volume  *float64 `json:"volume,omitempty"`
}

func (PlaySoundAction) ActionKind() ActionKind { return ActPlaySound }

// PlayBGMAction emits a PlayBGM command.
type PlayBGMAction struct {
	SoundID SoundID `json:"soundId"`
}

func (PlayBGMAction) ActionKind() ActionKind { return ActPlayBGM }

// StopSoundAction emits a StopSound command.
type StopSoundAction struct{}

func (StopSoundAction) ActionKind() ActionKind { return ActStopSound }

// MovePattern selects the motion behaviour started by a move action.
type MovePattern string

const (
	// MoveStraight sets a constant velocity toward a target point or along
	// an angle.
	MoveStraight MovePattern = "straight"
	// MoveTeleport sets the position instantly, within the same tick.
	MoveTeleport MovePattern = "teleport"
	// MoveWander resamples a random direction at a fixed interval.
	MoveWander MovePattern = "wander"
	// MoveBounce reflects velocity at the declared bounds.
	MoveBounce MovePattern = "bounce"
	// MoveOrbit circles a center point at fixed angular velocity.
	MoveOrbit MovePattern = "orbit"
	// MoveApproach recomputes velocity every tick toward another object's
	// live position.
	MoveApproach MovePattern = "approach"
)

// MoveAction starts (or replaces) a motion on an object and emits one Move
// command describing it. The engine advances the motion itself each tick;
// the command only informs the host.
//
// Pattern-specific fields:
//   - straight: To (point) or Angle (degrees); Duration optional
//   - teleport: To required, Speed ignored
//   - wander: Interval (seconds between direction resamples, default 1)
//   - bounce: Bounds required; Angle seeds the initial direction
//   - orbit: Center and Radius required; Speed is degrees per second
//   - approach: Target (object id) required
type MoveAction struct {
	Target   ObjectID    `json:"target,omitempty"` // object to move; empty means rule target
	Pattern  MovePattern `json:"pattern"`
	Speed    float64     `json:"speed,omitempty"`
	Duration *float64    `json:"duration,omitempty"`
	To       *Point      `json:"to,omitempty"`
	Angle    *float64    `json:"angle,omitempty"`
	Interval *float64    `json:"interval,omitempty"`
	Bounds   *Rect       `json:"bounds,omitempty"`
	Center   *Point      `json:"center,omitempty"`
	Radius   *float64    `json:"radius,omitempty"`
	Follow   ObjectID    `json:"follow,omitempty"` // approach target
}

func (MoveAction) ActionKind() ActionKind { return ActMove }

// ShowAction makes the target object visible.
type ShowAction struct {
	TargetID ObjectID `json:"targetId,omitempty"`
}

func (ShowAction) ActionKind() ActionKind { return ActShow }

// HideAction makes the target object invisible.
type HideAction struct {
	TargetID ObjectID `json:"targetId,omitempty"`
}

func (HideAction) ActionKind() ActionKind { return ActHide }

// SwitchAnimationAction changes the target's current animation. With
// AutoPlay the animation clock and loop counter reset to zero and playback
// starts; without it playback stops and the current frame is pinned,
// clamped into the new animation's range.
type SwitchAnimationAction struct {
	TargetID       ObjectID `json:"targetId,omitempty"`
	AnimationIndex int      `json:"animationIndex"`
	AutoPlay       bool     `json:"autoPlay"`
	Loop           bool     `json:"loop"`
	Speed          *float64 `json:"speed,omitempty"` // playback multiplier, default 1
}

func (SwitchAnimationAction) ActionKind() ActionKind { return ActSwitchAnimation }

// EffectPattern names a host-rendered visual effect.
type EffectPattern string

const (
	EffectFlash     EffectPattern = "flash"
	EffectShake     EffectPattern = "shake"
	EffectScale     EffectPattern = "scale"
	EffectRotate    EffectPattern = "rotate"
	EffectFade      EffectPattern = "fade"
	EffectParticles EffectPattern = "particles"
)

// EffectAction emits a SpawnEffect command for the host renderer.
type EffectAction struct {
	TargetID ObjectID      `json:"targetId,omitempty"`
	Pattern  EffectPattern `json:"pattern"`
	Duration float64       `json:"duration"`
}

func (EffectAction) ActionKind() ActionKind { return ActEffect }

// SetFlagAction writes a flag.
type SetFlagAction struct {
	FlagID FlagID `json:"flagId"`
	Value  bool   `json:"value"`
}

func (SetFlagAction) ActionKind() ActionKind { return ActSetFlag }

// ToggleFlagAction inverts a flag.
type ToggleFlagAction struct {
	FlagID FlagID `json:"flagId"`
}

func (ToggleFlagAction) ActionKind() ActionKind { return ActToggleFlag }

// CounterOpKind is the mutation applied by a counterOp action.
type CounterOpKind string

const (
	CounterIncrement CounterOpKind = "increment"
	CounterDecrement CounterOpKind = "decrement"
	CounterSet       CounterOpKind = "set"
)

// CounterOpAction mutates a counter. Value defaults to 1 for increment and
// decrement and to 0 for set.
type CounterOpAction struct {
	CounterID CounterID     `json:"counterId"`
	Op        CounterOpKind `json:"op"`
	Value     *float64      `json:"value,omitempty"`
}

func (CounterOpAction) ActionKind() ActionKind { return ActCounterOp }

// Amount returns the operand with the per-op default applied.
func (a CounterOpAction) Amount() float64 {
	if a.Value != nil {
		return *a.Value
	}
	if a.Op == CounterSet {
		return 0
	}
	return 1
}

// actionList decodes/encodes the tagged action union in rule order.
type actionList []Action

func (l *actionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	*l = make(actionList, 0, len(raws))
	for i, ra := range raws {
		act, err := unmarshalAction(ra)
		if err != nil {
			return fmt.Errorf("actions[%d]: %w", i, err)
		}
		*l = append(*l, act)
	}
	return nil
}

func (l actionList) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, len(l))
	for i, a := range l {
		b, err := marshalTagged(string(a.ActionKind()), a)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		raws[i] = b
	}
	return json.Marshal(raws)
}

func unmarshalAction(data []byte) (Action, error) {
	var env struct {
		Type ActionKind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var target Action
	switch env.Type {
	case ActSuccess:
		target = &SuccessAction{}
	case ActFailure:
		target = &FailureAction{}
	case ActPause:
		target = &PauseAction{}
	case ActRestart:
		target = &RestartAction{}
	case ActPlaySound:
		target = &PlaySoundAction{}
	case ActPlayBGM:
		target = &PlayBGMAction{}
	case ActStopSound:
		target = &StopSoundAction{}
	case ActMove:
		target = &MoveAction{}
	case ActShow:
		target = &ShowAction{}
	case ActHide:
		target = &HideAction{}
	case ActSwitchAnimation:
		target = &SwitchAnimationAction{}
	case ActEffect:
		target = &EffectAction{}
	case ActSetFlag:
		target = &SetFlagAction{}
	case ActToggleFlag:
		target = &ToggleFlagAction{}
	case ActCounterOp:
		target = &CounterOpAction{}
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("action %q: %w", env.Type, err)
	}
	return derefAction(target), nil
}

func derefAction(a Action) Action {
	switch v := a.(type) {
	case *SuccessAction:
		return *v
	case *FailureAction:
		return *v
	case *PauseAction:
		return *v
	case *RestartAction:
		return *v
	case *PlaySoundAction:
		return *v
	case *PlayBGMAction:
		return *v
	case *StopSoundAction:
		return *v
	case *MoveAction:
		return *v
	case *ShowAction:
		return *v
	case *HideAction:
		return *v
	case *SwitchAnimationAction:
		return *v
	case *EffectAction:
		return *v
	case *SetFlagAction:
		return *v
	case *ToggleFlagAction:
		return *v
	case *CounterOpAction:
		return *v
	default:
		return a
	}
}
