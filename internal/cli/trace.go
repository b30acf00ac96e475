package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapforge/minigame/internal/trace"
)

// TraceOptions holds flags shared by the trace subcommands.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect and compare recorded runs",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newTraceListCommand(opts))
	cmd.AddCommand(newTraceVerifyCommand(opts))

	return cmd
}

func newTraceListCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := trace.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open trace database", err)
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list runs", err)
			}

			if opts.Format == "json" {
				formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return formatter.Success(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  seed=%d  document=%s\n",
					run.Token, run.Seed, run.DocumentHash)
			}
			return nil
		},
	}
}

func newTraceVerifyCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token-a> <token-b>",
		Short: "Compare two recorded runs tick by tick",
		Long: `Compare two recorded runs of the same document. Exit code 1 means
the runs diverge; the first diverging tick and both hashes are reported.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := trace.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open trace database", err)
			}
			defer st.Close()

			result, err := st.Verify(cmd.Context(), args[0], args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "verification failed", err)
			}

			if opts.Format == "json" {
				formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				if err := formatter.Success(result); err != nil {
					return err
				}
			} else if result.Match {
				fmt.Fprintf(cmd.OutOrStdout(), "Runs match: %d tick(s) identical\n", result.TicksA)
			} else {
				div := result.Divergence
				fmt.Fprintf(cmd.OutOrStdout(), "Runs DIVERGE at tick %d\n", div.Tick)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", args[0], div.HashA)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", args[1], div.HashB)
			}

			if !result.Match {
				return NewExitError(ExitFailure, "recorded runs diverge")
			}
			return nil
		},
	}
}
