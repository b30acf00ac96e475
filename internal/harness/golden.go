package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tapforge/minigame/internal/game"
)

// TraceSnapshot captures the complete trace of a scenario execution.
// Serialized canonically so golden files are byte-stable across runs.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario_name"`
	Seed         uint64      `json:"seed"`
	Trace        []TickTrace `json:"trace"`
}

// canonicalJSON serializes the snapshot through the canonical marshaler:
// sorted keys, NFC strings, shortest round-trip floats.
func (s *TraceSnapshot) canonicalJSON() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return game.MarshalCanonical(generic)
}

// RunWithGolden executes a scenario and compares its trace against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails; a trace mismatch fails
// the test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an already-run scenario's trace against its
// golden file. Useful when the caller also wants the Result.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Seed:         scenario.Seed,
		Trace:        result.Trace,
	}
	traceJSON, err := snapshot.canonicalJSON()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
