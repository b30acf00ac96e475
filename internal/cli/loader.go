package cli

import (
	"errors"

	"github.com/tapforge/minigame/internal/engine"
	"github.com/tapforge/minigame/internal/game"
	"github.com/tapforge/minigame/internal/loader"
)

// startEngine loads a document and builds a seeded engine for it. Invalid
// documents exit 1 (a user problem); unreadable files exit 2.
func startEngine(path string, seed uint64) (*engine.Engine, string, error) {
	doc, err := loader.Load(path)
	if err != nil {
		var loadErrs game.LoadErrors
		if errors.As(err, &loadErrs) {
			return nil, "", WrapExitError(ExitFailure, "document is invalid", err)
		}
		return nil, "", WrapExitError(ExitCommandError, "failed to load document", err)
	}

	docHash, err := game.DocumentHash(doc)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to hash document", err)
	}

	eng, err := engine.New(doc, engine.WithSeed(seed))
	if err != nil {
		return nil, "", WrapExitError(ExitFailure, "failed to start engine", err)
	}

	return eng, docHash, nil
}
