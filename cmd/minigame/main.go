// minigame is the CLI for the deterministic mini-game rule engine.
//
// Usage:
//
//	minigame validate <document>          - Validate a game document
//	minigame run <document>               - Run a document headless
//	minigame scenario <scenario.yaml>     - Run a scripted scenario
//	minigame replay <document> --run <t>  - Verify a replay against a recorded run
//	minigame trace list|verify            - Inspect recorded runs
//
// Global flags:
//
//	--verbose        - Debug logging to stderr
//	--format <fmt>   - Output format: text or json
package main

import (
	"fmt"
	"os"

	"github.com/tapforge/minigame/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
