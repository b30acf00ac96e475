package trace

import (
	"context"
	"fmt"
)

// Divergence pinpoints the first tick where two runs disagree. Empty hash
// fields mean the run had no record for that tick (runs of unequal length).
type Divergence struct {
	Tick  int64  `json:"tick"`
	HashA string `json:"hash_a"`
	HashB string `json:"hash_b"`
}

// VerifyResult reports the outcome of comparing two recorded runs.
type VerifyResult struct {
	Match      bool        `json:"match"`
	TicksA     int         `json:"ticks_a"`
	TicksB     int         `json:"ticks_b"`
	Divergence *Divergence `json:"divergence,omitempty"` // nil when Match
}

// Verify compares two recorded runs tick by tick. Both runs must have
// executed the same document; comparing runs of different documents is an
// error, not a divergence. Seeds may differ - a seed mismatch simply makes
// divergence likely, which is exactly what the caller asked to detect.
func (s *Store) Verify(ctx context.Context, tokenA, tokenB string) (VerifyResult, error) {
	runA, err := s.ReadRun(ctx, tokenA)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify: read run %s: %w", tokenA, err)
	}
	runB, err := s.ReadRun(ctx, tokenB)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify: read run %s: %w", tokenB, err)
	}
	if runA.DocumentHash != runB.DocumentHash {
		return VerifyResult{}, fmt.Errorf("verify: runs executed different documents (%s vs %s)",
			runA.DocumentHash, runB.DocumentHash)
	}

	ticksA, err := s.ReadTicks(ctx, tokenA)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify: %w", err)
	}
	ticksB, err := s.ReadTicks(ctx, tokenB)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify: %w", err)
	}

	result := VerifyResult{TicksA: len(ticksA), TicksB: len(ticksB)}

	n := len(ticksA)
	if len(ticksB) < n {
		n = len(ticksB)
	}
	for i := 0; i < n; i++ {
		if ticksA[i].Tick != ticksB[i].Tick || ticksA[i].Hash != ticksB[i].Hash {
			result.Divergence = &Divergence{
				Tick:  ticksA[i].Tick,
				HashA: ticksA[i].Hash,
				HashB: ticksB[i].Hash,
			}
			return result, nil
		}
	}

	if len(ticksA) != len(ticksB) {
		div := &Divergence{}
		if len(ticksA) > n {
			div.Tick = ticksA[n].Tick
			div.HashA = ticksA[n].Hash
		} else {
			div.Tick = ticksB[n].Tick
			div.HashB = ticksB[n].Hash
		}
		result.Divergence = div
		return result, nil
	}

	result.Match = true
	return result, nil
}
