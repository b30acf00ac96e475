package engine

import (
	"github.com/tapforge/minigame/internal/game"
)

// applyAction applies one action to state and/or emits a side-effect
// command. Purely state-mutating actions update state synchronously with
// no host command; host-facing actions update minimal local motion or
// animation state and emit exactly one command.
//
// Terminal absorption is enforced here: once the game is terminal, no
// action mutates state further. Host-facing actions from the rule that
// reached the terminal state still emit (a success jingle is authored in
// the same action list), but the scheduler stops evaluating further rules.
func (e *Engine) applyAction(ctx *evalContext, act game.Action) {
	terminal := e.state.Terminal != game.TerminalRunning

	switch a := act.(type) {
	case game.SuccessAction:
		if terminal {
			return // idempotent once terminal
		}
		if a.Score != nil {
			e.state.Score += *a.Score
		}
		e.state.Terminal = game.TerminalSuccess

	case game.FailureAction:
		if terminal {
			return
		}
		e.state.Terminal = game.TerminalFailure

	case game.PauseAction:
		if terminal {
			return
		}
		e.state.Paused = !e.state.Paused

	case game.RestartAction:
		if terminal {
			return
		}
		e.reset()

	case game.PlaySoundAction:
		volume := 1.0
		if a.Volume != nil {
			volume = *a.Volume
		}
		e.emit(ctx, game.Command{Type: game.CmdPlaySound, SoundID: a.SoundID, Volume: volume})

	case game.PlayBGMAction:
		e.emit(ctx, game.Command{Type: game.CmdPlayBGM, SoundID: a.SoundID})

	case game.StopSoundAction:
		e.emit(ctx, game.Command{Type: game.CmdStopSound})

	case game.MoveAction:
		e.applyMove(ctx, a, terminal)

	case game.ShowAction:
		if terminal {
			return
		}
		if o := ctx.object(a.TargetID); o != nil {
			o.Visible = true
		}

	case game.HideAction:
		if terminal {
			return
		}
		if o := ctx.object(a.TargetID); o != nil {
			o.Visible = false
		}

	case game.SwitchAnimationAction:
		if terminal {
			return
		}
		e.applySwitchAnimation(ctx, a)

	case game.EffectAction:
		target := ctx.resolveTarget(a.TargetID)
		e.emit(ctx, game.Command{
			Type:     game.CmdSpawnEffect,
			TargetID: target,
			Effect:   a.Pattern,
			Duration: a.Duration,
		})

	case game.SetFlagAction:
		if terminal {
			return
		}
		e.state.Flags[a.FlagID] = a.Value

	case game.ToggleFlagAction:
		if terminal {
			return
		}
		e.state.Flags[a.FlagID] = !e.state.Flags[a.FlagID]

	case game.CounterOpAction:
		if terminal {
			return
		}
		switch a.Op {
		case game.CounterIncrement:
			e.state.Counters[a.CounterID] += a.Amount()
		case game.CounterDecrement:
			e.state.Counters[a.CounterID] -= a.Amount()
		case game.CounterSet:
			e.state.Counters[a.CounterID] = a.Amount()
		default:
			ctx.diag(DiagMalformedAction, "counterOp has unknown op %q", a.Op)
		}

	default:
		ctx.diag(DiagMalformedAction, "unknown action variant %T", act)
	}
}

// applyMove starts a motion (or teleports) and emits one Move command
// describing it. The engine advances the motion itself on subsequent
// ticks; the command only informs the host.
func (e *Engine) applyMove(ctx *evalContext, a game.MoveAction, terminal bool) {
	o := ctx.object(a.Target)
	if o == nil {
		return
	}

	if !terminal {
		if a.Pattern == game.MoveTeleport {
			// Instantaneous single-tick set; no lingering motion state.
			if a.To == nil {
				ctx.diag(DiagMalformedAction, "teleport move missing destination")
				return
			}
			o.X, o.Y = a.To.X, a.To.Y
			o.motion = nil
		} else {
			m := startMotion(a, o, e.rng)
			if m == nil {
				ctx.diag(DiagMalformedAction, "move %q has malformed parameters", a.Pattern)
				return
			}
			o.motion = m
		}
	}

	cmd := game.Command{Type: game.CmdMove, TargetID: o.ID, Pattern: a.Pattern}
	if a.Duration != nil {
		cmd.Duration = *a.Duration
	}
	e.emit(ctx, cmd)
}

// applySwitchAnimation changes the target's current animation. With
// autoPlay the clock and loop counter reset and playback starts this tick;
// without it playback stops and the current frame is pinned, clamped into
// the new animation's range.
func (e *Engine) applySwitchAnimation(ctx *evalContext, a game.SwitchAnimationAction) {
	o := ctx.object(a.TargetID)
	if o == nil {
		return
	}
	if a.AnimationIndex < 0 || a.AnimationIndex >= len(o.Animations) {
		ctx.diag(DiagMalformedAction, "animation index %d out of range for %q", a.AnimationIndex, o.ID)
		return
	}

	o.AnimIndex = a.AnimationIndex
	o.Loop = a.Loop
	o.Speed = 1
	if a.Speed != nil && *a.Speed > 0 {
		o.Speed = *a.Speed
	}

	if a.AutoPlay {
		o.AnimClock = 0
		o.LoopCount = 0
		o.PrevLoops = 0
		o.Frame = 0
		o.PrevFrame = 0
		o.Playing = true
		o.startedTick = ctx.tick
		return
	}

	o.Playing = false
	if last := o.Animations[a.AnimationIndex].FrameCount - 1; o.Frame > last {
		o.Frame = last
	}
}

// emit appends one host-facing command, enforcing the per-tick effect cap.
// Commands beyond the cap are dropped for the tick, earliest-requested
// wins, each drop recorded as one diagnostic.
func (e *Engine) emit(ctx *evalContext, cmd game.Command) {
	if len(e.commands) >= e.effectCap {
		e.droppedEffects++
		ctx.diag(DiagEffectsCapped, "command %q dropped: effect cap %d reached", cmd.Type, e.effectCap)
		return
	}
	e.commands = append(e.commands, cmd)
}
