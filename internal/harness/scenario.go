package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted engine run with assertions.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the path to the game document (JSON or YAML).
	// Relative paths resolve against the scenario file's directory.
	Document string `yaml:"document"`

	// Seed is the engine RNG seed. Zero is a valid, fully deterministic
	// seed, so scenarios may omit it.
	Seed uint64 `yaml:"seed,omitempty"`

	// Ticks scripts the run: each step is one engine tick (or several,
	// via repeat) with an explicit delta and the touches the host
	// reports on that tick.
	Ticks []TickStep `yaml:"ticks"`

	// Assertions validate the final state and the accumulated command
	// stream after the last scripted tick.
	Assertions []Assertion `yaml:"assertions"`
}

// TickStep is one scripted tick. With Repeat > 1 the step runs that many
// times; the touch list is reported on every repetition, so repeated
// steps with touches re-fire edge-triggered touch conditions each tick.
type TickStep struct {
	// Delta is the tick's simulated duration in seconds.
	Delta float64 `yaml:"delta"`

	// Repeat runs this step N times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// Touches are the host-reported touch events for this tick.
	Touches []TouchStep `yaml:"touches,omitempty"`
}

// TouchStep is one host-reported touch event.
type TouchStep struct {
	// Object is the touched object's id.
	Object string `yaml:"object"`

	// Type is "down" or "up". Empty defaults to "down".
	Type string `yaml:"type,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The scenario's
// document path is resolved relative to the scenario file's directory.
// Returns an error if the file is malformed, contains unknown fields
// (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
		scenario.Document = filepath.Join(filepath.Dir(path), scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(s.Document); os.IsNotExist(err) {
		return fmt.Errorf("document file not found: %s", s.Document)
	}

	if len(s.Ticks) == 0 {
		return fmt.Errorf("ticks list is required and must be non-empty")
	}
	for i, step := range s.Ticks {
		if step.Delta <= 0 {
			return fmt.Errorf("ticks[%d]: delta must be positive", i)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("ticks[%d]: repeat must be non-negative", i)
		}
		for j, touch := range step.Touches {
			if touch.Object == "" {
				return fmt.Errorf("ticks[%d].touches[%d]: object is required", i, j)
			}
			if touch.Type != "" && touch.Type != "down" && touch.Type != "up" {
				return fmt.Errorf("ticks[%d].touches[%d]: type must be down or up, got %q", i, j, touch.Type)
			}
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}
