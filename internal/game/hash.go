package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed hashing. The version suffix allows
// future algorithm migration without colliding with old hashes.
const (
	domainState    = "minigame/state/v1"
	domainTick     = "minigame/tick/v1"
	domainDocument = "minigame/document/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalize round-trips a value through JSON into the generic form the
// canonical marshaler accepts.
func canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return MarshalCanonical(generic)
}

// DocumentHash computes the content-addressed identity of a loaded
// document, so trace runs can prove they executed the same game.
func DocumentHash(doc *Document) (string, error) {
	canonical, err := canonicalize(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: %w", err)
	}
	return hashWithDomain(domainDocument, canonical), nil
}

// StateHash computes the content-addressed hash of a full per-tick
// snapshot: game state plus every object's runtime state. Two runs are
// byte-identical exactly when every tick's StateHash matches.
func StateHash(state StateSnapshot, objects []ObjectSnapshot) (string, error) {
	canonical, err := canonicalize(map[string]any{
		"state":   state,
		"objects": objects,
	})
	if err != nil {
		return "", fmt.Errorf("StateHash: %w", err)
	}
	return hashWithDomain(domainState, canonical), nil
}

// TickHash extends StateHash with the tick's emitted commands, so replay
// verification also proves the host-facing command stream is identical.
func TickHash(state StateSnapshot, objects []ObjectSnapshot, commands []Command) (string, error) {
	canonical, err := canonicalize(map[string]any{
		"state":    state,
		"objects":  objects,
		"commands": commands,
	})
	if err != nil {
		return "", fmt.Errorf("TickHash: %w", err)
	}
	return hashWithDomain(domainTick, canonical), nil
}
