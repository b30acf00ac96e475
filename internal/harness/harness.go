package harness

import (
	"fmt"

	"github.com/tapforge/minigame/internal/engine"
	"github.com/tapforge/minigame/internal/game"
	"github.com/tapforge/minigame/internal/loader"
)

// TickTrace is one tick's entry in a scenario trace. The hash is the
// tick's content-addressed hash, so a golden trace pins the complete
// state trajectory without storing every snapshot field.
type TickTrace struct {
	Tick        int64               `json:"tick"`
	Hash        string              `json:"hash"`
	Terminal    game.Terminal       `json:"terminal"`
	Commands    []game.Command      `json:"commands"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty"`
}

// Result holds everything a scenario run produced.
type Result struct {
	Passed bool
	Errors []string
	Trace  []TickTrace
	Final  engine.TickResult
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Passed = false
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario against the real engine: loads the document,
// seeds the RNG, plays the scripted ticks, then evaluates assertions
// against the final state and the accumulated command stream.
//
// A scenario error (unloadable document, unhashable tick) is returned as
// an error; assertion failures are recorded on the Result instead.
func Run(scenario *Scenario) (*Result, error) {
	doc, err := loader.Load(scenario.Document)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	eng, err := engine.New(doc, engine.WithSeed(scenario.Seed))
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	result := &Result{Passed: true}
	var last engine.TickResult

	for _, step := range scenario.Ticks {
		repeat := step.Repeat
		if repeat < 1 {
			repeat = 1
		}

		touches := make([]game.TouchEvent, len(step.Touches))
		for i, t := range step.Touches {
			touches[i] = game.TouchEvent{
				ObjectID: game.ObjectID(t.Object),
				Type:     game.TouchEventType(t.Type),
			}
		}

		for n := 0; n < repeat; n++ {
			res := eng.Tick(step.Delta, touches)
			hash, err := res.Hash()
			if err != nil {
				return nil, fmt.Errorf("hash tick %d: %w", res.Tick, err)
			}
			result.Trace = append(result.Trace, TickTrace{
				Tick:        res.Tick,
				Hash:        hash,
				Terminal:    res.Terminal,
				Commands:    res.Commands,
				Diagnostics: res.Diagnostics,
			})
			last = res
		}
	}
	result.Final = last

	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result, assertion); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}
