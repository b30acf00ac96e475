package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapforge/minigame/internal/engine"
	"github.com/tapforge/minigame/internal/game"
	"github.com/tapforge/minigame/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed     uint64
	Ticks    int
	Delta    float64
	Database string

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator trace.TokenGenerator
}

// RunSummary is the run command's output payload.
type RunSummary struct {
	RunToken     string             `json:"run_token,omitempty"`
	DocumentHash string             `json:"document_hash"`
	Seed         uint64             `json:"seed"`
	Ticks        int                `json:"ticks"`
	Terminal     game.Terminal      `json:"terminal"`
	FinalState   game.StateSnapshot `json:"final_state"`
	FinalHash    string             `json:"final_hash"`
	Commands     int                `json:"commands"`
	Diagnostics  int                `json:"diagnostics"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Run a document headless for a fixed number of ticks",
		Long: `Run a game document through the deterministic tick engine without
host input. The run stops early once a terminal state is reached.

With --db, every tick's content-addressed hash and command stream is
recorded under a fresh run token; a later run with the same document and
seed can be verified against it with the replay command.

Example:
  minigame run game.json --ticks 600 --seed 42
  minigame run game.yaml --db traces.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "RNG seed")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 600, "maximum number of ticks")
	cmd.Flags().Float64Var(&opts.Delta, "delta", 1.0/60.0, "seconds per tick")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run to this SQLite trace database")

	return cmd
}

func runDocument(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Ticks <= 0 {
		return NewExitError(ExitCommandError, "--ticks must be positive")
	}
	if opts.Delta <= 0 {
		return NewExitError(ExitCommandError, "--delta must be positive")
	}

	eng, docHash, err := startEngine(path, opts.Seed)
	if err != nil {
		return err
	}

	var (
		st    *trace.Store
		token string
	)
	if opts.Database != "" {
		st, err = trace.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer st.Close()

		gen := opts.TokenGenerator
		if gen == nil {
			gen = trace.UUIDv7Generator{}
		}
		token = gen.Generate()
		if err := st.BeginRun(cmd.Context(), trace.Run{
			Token:        token,
			DocumentHash: docHash,
			Seed:         int64(opts.Seed),
		}); err != nil {
			return WrapExitError(ExitCommandError, "failed to begin run", err)
		}
		formatter.VerboseLog("recording run %s", token)
	}

	summary := RunSummary{
		RunToken:     token,
		DocumentHash: docHash,
		Seed:         opts.Seed,
	}

	var last engine.TickResult
	for i := 0; i < opts.Ticks; i++ {
		last = eng.Tick(opts.Delta, nil)
		summary.Ticks++
		summary.Commands += len(last.Commands)
		summary.Diagnostics += len(last.Diagnostics)

		if st != nil {
			if err := st.WriteTick(cmd.Context(), token, last); err != nil {
				return WrapExitError(ExitCommandError, "failed to record tick", err)
			}
		}

		if last.Terminal != game.TerminalRunning {
			break
		}
	}

	summary.Terminal = last.Terminal
	summary.FinalState = last.State
	hash, err := last.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash final tick", err)
	}
	summary.FinalHash = hash

	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ran %d tick(s), terminal: %s\n", summary.Ticks, summary.Terminal)
	fmt.Fprintf(cmd.OutOrStdout(), "  score: %d  elapsed: %.3fs  commands: %d  diagnostics: %d\n",
		summary.FinalState.Score, summary.FinalState.ElapsedSeconds, summary.Commands, summary.Diagnostics)
	fmt.Fprintf(cmd.OutOrStdout(), "  final hash: %s\n", summary.FinalHash)
	if token != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  run token: %s\n", token)
	}
	return nil
}
