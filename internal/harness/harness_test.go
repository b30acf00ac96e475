package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapforge/minigame/internal/game"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// docPath is the shared test document, absolute so scenarios written to
// temp dirs can reference it.
func docPath(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", "doc.json"))
	require.NoError(t, err)
	return abs
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "tap_win.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tap_win", s.Name)
	assert.Equal(t, uint64(7), s.Seed)
	require.Len(t, s.Ticks, 2)
	assert.Equal(t, 0.25, s.Ticks[0].Delta)
	require.Len(t, s.Ticks[1].Touches, 1)
	assert.Equal(t, "ball", s.Ticks[1].Touches[0].Object)
	assert.Len(t, s.Assertions, 7)

	// The document path resolves against the scenario's directory.
	assert.Equal(t, filepath.Join("testdata", "doc.json"), s.Document)
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
document: `+docPath(t)+`
tikcs:
  - delta: 0.25
assertions:
  - type: terminal
    terminal: running
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tikcs")
}

func TestLoadScenarioValidation(t *testing.T) {
	doc := docPath(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "document: " + doc + "\nticks:\n  - delta: 0.25\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "name is required",
		},
		{
			name:    "missing document",
			body:    "name: s\nticks:\n  - delta: 0.25\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "document is required",
		},
		{
			name:    "document not found",
			body:    "name: s\ndocument: /absent/doc.json\nticks:\n  - delta: 0.25\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "not found",
		},
		{
			name:    "no ticks",
			body:    "name: s\ndocument: " + doc + "\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "ticks list is required",
		},
		{
			name:    "non-positive delta",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "delta must be positive",
		},
		{
			name:    "bad touch type",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0.25\n    touches:\n      - object: ball\n        type: hover\nassertions:\n  - type: terminal\n    terminal: running\n",
			wantErr: "type must be down or up",
		},
		{
			name:    "no assertions",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0.25\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown assertion type",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0.25\nassertions:\n  - type: telepathy\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "bad terminal value",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0.25\nassertions:\n  - type: terminal\n    terminal: winning\n",
			wantErr: "terminal must be",
		},
		{
			name:    "counter without op",
			body:    "name: s\ndocument: " + doc + "\nticks:\n  - delta: 0.25\nassertions:\n  - type: counter\n    counter: ticks\n",
			wantErr: "op is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunScenarioPasses(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "tap_win.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Passed, "assertion errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Len(t, result.Trace[0].Hash, 64)
	assert.Equal(t, game.TerminalSuccess, result.Final.Terminal)
}

func TestRunScenarioRepeatsSteps(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "idle.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Passed, "assertion errors: %v", result.Errors)
	assert.Len(t, result.Trace, 4)
	assert.Equal(t, float64(4), result.Final.State.Counters["ticks"])
}

func TestRunScenarioRecordsAssertionFailures(t *testing.T) {
	path := writeScenario(t, `
name: doomed
document: `+docPath(t)+`
ticks:
  - delta: 0.25
assertions:
  - type: terminal
    terminal: failure
  - type: counter
    counter: ticks
    op: eq
    value: 99
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err) // assertion failures are not run errors

	assert.False(t, result.Passed)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "terminal")
}

func TestRunScenarioTraceIsDeterministic(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "tap_win.yaml"))
	require.NoError(t, err)

	a, err := Run(s)
	require.NoError(t, err)
	b, err := Run(s)
	require.NoError(t, err)

	require.Equal(t, len(a.Trace), len(b.Trace))
	for i := range a.Trace {
		assert.Equal(t, a.Trace[i].Hash, b.Trace[i].Hash, "tick %d", a.Trace[i].Tick)
	}
}

func TestRunScenarioUnloadableDocument(t *testing.T) {
	dir := t.TempDir()
	badDoc := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badDoc, []byte(`{"rules": []}`), 0o644))

	s := &Scenario{
		Name:     "broken",
		Document: badDoc,
		Ticks:    []TickStep{{Delta: 0.25}},
	}

	_, err := Run(s)
	assert.Error(t, err)
}
