package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapforge/minigame/internal/harness"
)

// ScenarioResult is the scenario command's output payload.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Passed bool     `json:"passed"`
	Ticks  int      `json:"ticks"`
	Errors []string `json:"errors,omitempty"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <scenario.yaml>",
		Short: "Run a scripted scenario and evaluate its assertions",
		Long: `Run a YAML scenario: load its document, play the scripted ticks with
their touch events against the real engine, then evaluate the scenario's
assertions over the final state and the emitted command stream.

Exit code 1 means one or more assertions failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("scenario %s: %s", scenario.Name, scenario.Description)

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	payload := ScenarioResult{
		Name:   scenario.Name,
		Passed: result.Passed,
		Ticks:  len(result.Trace),
		Errors: result.Errors,
	}

	if opts.Format == "json" {
		if err := formatter.Success(payload); err != nil {
			return err
		}
	} else {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d ticks)\n", status, scenario.Name, payload.Ticks)
		for _, msg := range result.Errors {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
	}

	if !result.Passed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(result.Errors)))
	}
	return nil
}
