package harness

import (
	"fmt"
	"strings"

	"github.com/tapforge/minigame/internal/game"
)

// Assertion validates the final state or the accumulated command stream
// after the last scripted tick.
type Assertion struct {
	// Type selects the assertion:
	//   - "terminal": final terminal state equals Terminal
	//   - "score": final score compares (Op, Value)
	//   - "flag": flag Flag equals Equals
	//   - "counter": counter Counter compares (Op, Value)
	//   - "command_emitted": some tick emitted a matching command
	//   - "command_count": matching commands appear exactly Count times
	//   - "object_visible": object Object's final visibility equals Visible
	Type string `yaml:"type"`

	// Terminal is the expected outcome (used by terminal).
	Terminal string `yaml:"terminal,omitempty"`

	// Op and Value are the comparison (used by score, counter).
	Op    string  `yaml:"op,omitempty"`
	Value float64 `yaml:"value,omitempty"`

	// Flag and Equals name a flag expectation (used by flag).
	Flag   string `yaml:"flag,omitempty"`
	Equals bool   `yaml:"equals,omitempty"`

	// Counter names the counter (used by counter).
	Counter string `yaml:"counter,omitempty"`

	// Command is the command type; Object and Sound optionally narrow the
	// match (used by command_emitted, command_count).
	Command string `yaml:"command,omitempty"`
	Object  string `yaml:"object,omitempty"`
	Sound   string `yaml:"sound,omitempty"`

	// Count is the expected number of matches (used by command_count).
	Count int `yaml:"count,omitempty"`

	// Visible is the expected final visibility (used by object_visible;
	// Object names the object).
	Visible bool `yaml:"visible,omitempty"`
}

// Assertion type constants.
const (
	AssertTerminal       = "terminal"
	AssertScore          = "score"
	AssertFlag           = "flag"
	AssertCounter        = "counter"
	AssertCommandEmitted = "command_emitted"
	AssertCommandCount   = "command_count"
	AssertObjectVisible  = "object_visible"
)

// AssertionError is returned when an assertion fails. It includes the
// emitted command stream for debugging context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TickTrace
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nEmitted commands:\n")
	for _, tick := range e.Trace {
		for _, cmd := range tick.Commands {
			fmt.Fprintf(&buf, "  [tick %d] %s target=%s sound=%s\n",
				tick.Tick, cmd.Type, cmd.TargetID, cmd.SoundID)
		}
	}

	return buf.String()
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTerminal:
		switch a.Terminal {
		case string(game.TerminalRunning), string(game.TerminalSuccess), string(game.TerminalFailure):
		default:
			return fmt.Errorf("assertions[%d]: terminal must be running, success, or failure, got %q", index, a.Terminal)
		}
	case AssertScore:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for score", index)
		}
	case AssertFlag:
		if a.Flag == "" {
			return fmt.Errorf("assertions[%d]: flag is required for flag", index)
		}
	case AssertCounter:
		if a.Counter == "" {
			return fmt.Errorf("assertions[%d]: counter is required for counter", index)
		}
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for counter", index)
		}
	case AssertCommandEmitted:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for command_emitted", index)
		}
	case AssertCommandCount:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for command_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for command_count", index)
		}
	case AssertObjectVisible:
		if a.Object == "" {
			return fmt.Errorf("assertions[%d]: object is required for object_visible", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// evaluateAssertion checks one assertion against a finished run.
func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTerminal:
		return assertTerminal(result, a)
	case AssertScore:
		return assertScore(result, a)
	case AssertFlag:
		return assertFlag(result, a)
	case AssertCounter:
		return assertCounter(result, a)
	case AssertCommandEmitted:
		return assertCommandEmitted(result, a)
	case AssertCommandCount:
		return assertCommandCount(result, a)
	case AssertObjectVisible:
		return assertObjectVisible(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertTerminal(result *Result, a Assertion) error {
	actual := result.Final.Terminal
	if string(actual) == a.Terminal {
		return nil
	}
	return &AssertionError{
		Type:     AssertTerminal,
		Expected: a.Terminal,
		Actual:   string(actual),
		Trace:    result.Trace,
	}
}

func assertScore(result *Result, a Assertion) error {
	op := game.CompareOp(a.Op)
	actual := float64(result.Final.State.Score)
	if op.Compare(actual, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertScore,
		Expected: fmt.Sprintf("score %s %v", a.Op, a.Value),
		Actual:   fmt.Sprintf("score %v", actual),
		Trace:    result.Trace,
	}
}

func assertFlag(result *Result, a Assertion) error {
	actual := result.Final.State.Flags[game.FlagID(a.Flag)]
	if actual == a.Equals {
		return nil
	}
	return &AssertionError{
		Type:     AssertFlag,
		Expected: fmt.Sprintf("flag %s = %v", a.Flag, a.Equals),
		Actual:   fmt.Sprintf("flag %s = %v", a.Flag, actual),
		Trace:    result.Trace,
	}
}

func assertCounter(result *Result, a Assertion) error {
	op := game.CompareOp(a.Op)
	actual := result.Final.State.Counters[game.CounterID(a.Counter)]
	if op.Compare(actual, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertCounter,
		Expected: fmt.Sprintf("counter %s %s %v", a.Counter, a.Op, a.Value),
		Actual:   fmt.Sprintf("counter %s = %v", a.Counter, actual),
		Trace:    result.Trace,
	}
}

// matchCommand applies the assertion's command filters.
func matchCommand(cmd game.Command, a Assertion) bool {
	if string(cmd.Type) != a.Command {
		return false
	}
	if a.Object != "" && string(cmd.TargetID) != a.Object {
		return false
	}
	if a.Sound != "" && string(cmd.SoundID) != a.Sound {
		return false
	}
	return true
}

func assertCommandEmitted(result *Result, a Assertion) error {
	for _, tick := range result.Trace {
		for _, cmd := range tick.Commands {
			if matchCommand(cmd, a) {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     AssertCommandEmitted,
		Expected: fmt.Sprintf("command %s (object=%q sound=%q)", a.Command, a.Object, a.Sound),
		Actual:   "not emitted",
		Trace:    result.Trace,
	}
}

func assertCommandCount(result *Result, a Assertion) error {
	count := 0
	for _, tick := range result.Trace {
		for _, cmd := range tick.Commands {
			if matchCommand(cmd, a) {
				count++
			}
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCommandCount,
		Expected: fmt.Sprintf("command %s emitted %d times", a.Command, a.Count),
		Actual:   fmt.Sprintf("emitted %d times", count),
		Trace:    result.Trace,
	}
}

func assertObjectVisible(result *Result, a Assertion) error {
	for _, obj := range result.Final.Objects {
		if string(obj.ID) != a.Object {
			continue
		}
		if obj.Visible == a.Visible {
			return nil
		}
		return &AssertionError{
			Type:     AssertObjectVisible,
			Expected: fmt.Sprintf("object %s visible = %v", a.Object, a.Visible),
			Actual:   fmt.Sprintf("visible = %v", obj.Visible),
			Trace:    result.Trace,
		}
	}
	return &AssertionError{
		Type:     AssertObjectVisible,
		Expected: fmt.Sprintf("object %s present in final snapshot", a.Object),
		Actual:   "object not found",
		Trace:    result.Trace,
	}
}
