package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tapforge/minigame/internal/engine"
	"github.com/tapforge/minigame/internal/game"
)

// finishedRun fakes a completed two-tick run for assertion tests.
func finishedRun() *Result {
	return &Result{
		Passed: true,
		Trace: []TickTrace{
			{Tick: 1, Terminal: game.TerminalRunning, Commands: []game.Command{
				{Type: game.CmdPlaySound, SoundID: "beep", Volume: 1},
			}},
			{Tick: 2, Terminal: game.TerminalSuccess, Commands: []game.Command{
				{Type: game.CmdPlaySound, SoundID: "boom", Volume: 1},
				{Type: game.CmdSpawnEffect, TargetID: "ball", Effect: game.EffectFlash},
			}},
		},
		Final: engine.TickResult{
			Tick: 2,
			State: game.StateSnapshot{
				Score:    100,
				Flags:    map[game.FlagID]bool{"door": true},
				Counters: map[game.CounterID]float64{"ticks": 2},
				Terminal: game.TerminalSuccess,
			},
			Objects:  []game.ObjectSnapshot{{ID: "star", Visible: false}},
			Terminal: game.TerminalSuccess,
		},
	}
}

func TestEvaluateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		pass      bool
	}{
		{"terminal match", Assertion{Type: AssertTerminal, Terminal: "success"}, true},
		{"terminal mismatch", Assertion{Type: AssertTerminal, Terminal: "failure"}, false},

		{"score eq", Assertion{Type: AssertScore, Op: "eq", Value: 100}, true},
		{"score gte", Assertion{Type: AssertScore, Op: "gte", Value: 50}, true},
		{"score lt fails", Assertion{Type: AssertScore, Op: "lt", Value: 100}, false},

		{"flag set", Assertion{Type: AssertFlag, Flag: "door", Equals: true}, true},
		{"flag mismatch", Assertion{Type: AssertFlag, Flag: "door", Equals: false}, false},
		{"undeclared flag reads false", Assertion{Type: AssertFlag, Flag: "ghost", Equals: false}, true},

		{"counter eq", Assertion{Type: AssertCounter, Counter: "ticks", Op: "eq", Value: 2}, true},
		{"counter gt fails", Assertion{Type: AssertCounter, Counter: "ticks", Op: "gt", Value: 2}, false},

		{"command emitted", Assertion{Type: AssertCommandEmitted, Command: "playSound"}, true},
		{"command emitted with sound filter", Assertion{Type: AssertCommandEmitted, Command: "playSound", Sound: "boom"}, true},
		{"command emitted wrong sound", Assertion{Type: AssertCommandEmitted, Command: "playSound", Sound: "silent"}, false},
		{"command emitted with object filter", Assertion{Type: AssertCommandEmitted, Command: "spawnEffect", Object: "ball"}, true},
		{"command never emitted", Assertion{Type: AssertCommandEmitted, Command: "stopSound"}, false},

		{"command count across ticks", Assertion{Type: AssertCommandCount, Command: "playSound", Count: 2}, true},
		{"command count zero", Assertion{Type: AssertCommandCount, Command: "playBGM", Count: 0}, true},
		{"command count mismatch", Assertion{Type: AssertCommandCount, Command: "playSound", Count: 1}, false},

		{"object hidden", Assertion{Type: AssertObjectVisible, Object: "star", Visible: false}, true},
		{"object visibility mismatch", Assertion{Type: AssertObjectVisible, Object: "star", Visible: true}, false},
		{"object missing", Assertion{Type: AssertObjectVisible, Object: "ghost", Visible: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluateAssertion(finishedRun(), tt.assertion)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAssertionErrorIncludesCommandTrace(t *testing.T) {
	err := evaluateAssertion(finishedRun(), Assertion{Type: AssertTerminal, Terminal: "failure"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: failure")
	assert.Contains(t, err.Error(), "Actual: success")
	assert.Contains(t, err.Error(), "[tick 1] playSound")
}

func TestResultAddError(t *testing.T) {
	r := &Result{Passed: true}
	r.AddError("boom")

	assert.False(t, r.Passed)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
