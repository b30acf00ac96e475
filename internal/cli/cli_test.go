package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a fresh root command and returns captured
// stdout. Stderr is swallowed; commands under test write results to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTempDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// recordRun records testdata/timed.json into the given database and
// returns the fresh run token.
func recordRun(t *testing.T, db string, delta string) string {
	t.Helper()

	out, err := execute(t, "run", filepath.Join("testdata", "timed.json"),
		"--ticks", "10", "--delta", delta, "--seed", "42", "--db", db, "--format", "json")
	require.NoError(t, err)

	var envelope struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	require.Equal(t, "ok", envelope.Status)
	require.NotEmpty(t, envelope.Data.RunToken)
	return envelope.Data.RunToken
}
