package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tapforge/minigame/internal/engine"
	"github.com/tapforge/minigame/internal/game"
)

// Run identifies one recorded engine execution.
type Run struct {
	Token        string `json:"token"`
	DocumentHash string `json:"document_hash"`
	Seed         int64  `json:"seed"`
}

// TickRecord is one tick of a recorded run.
type TickRecord struct {
	RunToken string
	Tick     int64
	Hash     string
	Terminal game.Terminal
	Commands []game.Command
}

// BeginRun inserts a run record. Uses ON CONFLICT(token) DO NOTHING for
// idempotency - re-registering the same token is silently ignored.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, document_hash, seed)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, run.Token, run.DocumentHash, run.Seed)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteTick appends one tick of a run. The tick hash is computed from the
// result's state, objects, and commands; the command stream is stored as
// JSON for divergence inspection.
//
// Uses ON CONFLICT(run_token, tick) DO NOTHING for idempotency - a tick
// already recorded for this run is silently ignored.
//
// Note: the run referenced by runToken must exist (foreign key constraint).
func (s *Store) WriteTick(ctx context.Context, runToken string, result engine.TickResult) error {
	hash, err := result.Hash()
	if err != nil {
		return fmt.Errorf("write tick: %w", err)
	}

	commands := result.Commands
	if commands == nil {
		commands = []game.Command{}
	}
	commandsJSON, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("write tick: marshal commands: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ticks (run_token, tick, hash, terminal, commands)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_token, tick) DO NOTHING
	`, runToken, result.Tick, hash, string(result.Terminal), string(commandsJSON))
	if err != nil {
		return fmt.Errorf("write tick: %w", err)
	}
	return nil
}

// ReadRun retrieves a run record by token.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, document_hash, seed
		FROM runs
		WHERE token = ?
	`, token).Scan(&run.Token, &run.DocumentHash, &run.Seed)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ReadTicks returns all tick records of a run in tick order.
// Returns an empty slice (not nil) if the run has no ticks.
func (s *Store) ReadTicks(ctx context.Context, token string) ([]TickRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, tick, hash, terminal, commands
		FROM ticks
		WHERE run_token = ?
		ORDER BY tick ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []TickRecord
	for rows.Next() {
		var (
			rec          TickRecord
			terminal     string
			commandsJSON string
		)
		if err := rows.Scan(&rec.RunToken, &rec.Tick, &rec.Hash, &terminal, &commandsJSON); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		rec.Terminal = game.Terminal(terminal)
		if err := json.Unmarshal([]byte(commandsJSON), &rec.Commands); err != nil {
			return nil, fmt.Errorf("unmarshal tick %d commands: %w", rec.Tick, err)
		}
		ticks = append(ticks, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}

	if ticks == nil {
		ticks = []TickRecord{}
	}
	return ticks, nil
}

// ListRuns returns every recorded run, oldest first. UUIDv7 tokens sort
// lexically by creation time, so ordering by token is chronological.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, document_hash, seed
		FROM runs
		ORDER BY token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.Token, &run.DocumentHash, &run.Seed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}
