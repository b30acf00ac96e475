package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorMessage(t *testing.T) {
	plain := NewExitError(ExitFailure, "document is invalid")
	assert.Equal(t, "document is invalid", plain.Error())

	wrapped := WrapExitError(ExitCommandError, "failed to open trace database", errors.New("no such file"))
	assert.Equal(t, "failed to open trace database: no such file", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "no such file")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"exit error", NewExitError(ExitCommandError, "boom"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "boom")), ExitCommandError},
		{"plain error defaults to failure", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetExitCode(tt.err))
		})
	}
}

func TestOutputFormatterSuccessJSON(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out}

	require.NoError(t, f.Success(map[string]int{"ticks": 4}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]interface{}{"ticks": float64(4)}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatterSuccessText(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	require.NoError(t, f.Success("all good"))
	assert.Equal(t, "all good\n", out.String())
}

func TestOutputFormatterErrorJSON(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out}

	require.NoError(t, f.Error("E104", "unknown sound", "rules[0]"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E104", resp.Error.Code)
	assert.Equal(t, "unknown sound", resp.Error.Message)
	assert.Equal(t, "rules[0]", resp.Error.Details)
}

func TestOutputFormatterErrorText(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	require.NoError(t, f.Error("E104", "unknown sound", "rules[0]"))
	assert.Equal(t, "Error [E104]: unknown sound\n", out.String())

	out.Reset()
	f.Verbose = true
	require.NoError(t, f.Error("E104", "unknown sound", "rules[0]"))
	assert.Contains(t, out.String(), "Details: rules[0]")
}

func TestVerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	f.VerboseLog("recording run %s", "abc")
	assert.Empty(t, errOut.String(), "quiet unless verbose")

	f.Verbose = true
	f.VerboseLog("recording run %s", "abc")
	assert.Equal(t, "recording run abc\n", errOut.String())
	assert.Empty(t, out.String(), "verbose logs stay off stdout")

	// Without a dedicated error writer the log falls back to Writer.
	f.ErrWriter = nil
	f.VerboseLog("fallback")
	assert.Equal(t, "fallback\n", out.String())
}
