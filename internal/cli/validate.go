package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapforge/minigame/internal/game"
	"github.com/tapforge/minigame/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Errors []game.LoadError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a game document without running it",
		Long: `Validate a game document (JSON or YAML) against the schema and
reference rules.

All problems are collected and reported together: schema violations,
unknown flag/counter/object/sound references, out-of-range values, and
rules with no actions. Exit code 1 means the document is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := loader.Load(path)
	if err != nil {
		var loadErrs game.LoadErrors
		if errors.As(err, &loadErrs) {
			result := ValidationResult{Valid: false, Errors: loadErrs}
			if opts.Format == "json" {
				if err := formatter.Success(result); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Invalid: %d error(s)\n", len(loadErrs))
				for _, le := range loadErrs {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", le.Error())
				}
			}
			return NewExitError(ExitFailure, "document is invalid")
		}
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	formatter.VerboseLog("document ok: %d objects, %d rules", len(doc.Layout), len(doc.Rules))

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Valid")
	return nil
}
