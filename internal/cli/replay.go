package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapforge/minigame/internal/game"
	"github.com/tapforge/minigame/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunToken string
	Delta    float64
}

// ReplayResult is the replay command's output payload.
type ReplayResult struct {
	RunToken   string `json:"run_token"`
	Ticks      int    `json:"ticks"`
	Match      bool   `json:"match"`
	DivergedAt int64  `json:"diverged_at,omitempty"`
	WantHash   string `json:"want_hash,omitempty"`
	GotHash    string `json:"got_hash,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <document>",
		Short: "Re-execute a recorded run and verify determinism",
		Long: `Re-execute a game document against a recorded run and compare the
per-tick content hashes. The recorded run's seed is reused, so a correct
engine must reproduce every hash exactly.

The document must be the one the run was recorded from; a document hash
mismatch is a command error, not a divergence. Exit code 1 means the
replay diverged.

Example:
  minigame replay game.json --db traces.db --run 0190d5b0-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "token of the recorded run (required)")
	cmd.Flags().Float64Var(&opts.Delta, "delta", 1.0/60.0, "seconds per tick, must match the recorded run")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	recorded, err := st.ReadTicks(ctx, run.Token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read recorded ticks", err)
	}
	if len(recorded) == 0 {
		return NewExitError(ExitCommandError, "recorded run has no ticks")
	}

	eng, docHash, err := startEngine(path, uint64(run.Seed))
	if err != nil {
		return err
	}
	if docHash != run.DocumentHash {
		return NewExitError(ExitCommandError, fmt.Sprintf(
			"document hash mismatch: run was recorded from %s, got %s", run.DocumentHash, docHash))
	}

	formatter.VerboseLog("replaying %d tick(s) with seed %d", len(recorded), run.Seed)

	result := ReplayResult{RunToken: run.Token, Ticks: len(recorded), Match: true}
	for _, rec := range recorded {
		res := eng.Tick(opts.Delta, nil)
		hash, err := res.Hash()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to hash replayed tick", err)
		}
		if res.Tick != rec.Tick || hash != rec.Hash {
			result.Match = false
			result.DivergedAt = rec.Tick
			result.WantHash = rec.Hash
			result.GotHash = hash
			break
		}
		if res.Terminal != game.TerminalRunning {
			break
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Match {
		fmt.Fprintf(cmd.OutOrStdout(), "Replay matched: %d tick(s) reproduced exactly\n", result.Ticks)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Replay DIVERGED at tick %d\n", result.DivergedAt)
		fmt.Fprintf(cmd.OutOrStdout(), "  recorded: %s\n", result.WantHash)
		fmt.Fprintf(cmd.OutOrStdout(), "  replayed: %s\n", result.GotHash)
	}

	if !result.Match {
		return NewExitError(ExitFailure, "replay diverged from recorded run")
	}
	return nil
}
