package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a merge scenario: a named sequence of operations
// submitted by different users against one document.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files are keyed on it.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Document is the document ID every step targets.
	Document string `yaml:"document"`

	// Initial optionally seeds the document. It is submitted as a root
	// update by the "setup" user before the steps run.
	Initial map[string]any `yaml:"initial,omitempty"`

	// Steps are the submissions, in arrival order.
	Steps []Step `yaml:"steps"`

	// ExpectState optionally asserts the final document state.
	ExpectState map[string]any `yaml:"expect_state,omitempty"`
}

// Step is a single submission: one operation attributed to one user.
type Step struct {
	// User is the author identity for the submission.
	User string `yaml:"user"`

	// Op is the wire-shaped operation ({type, path, position, length,
	// value}). Unknown types are legal and apply as no-ops.
	Op map[string]any `yaml:"op"`
}

// SetupUser is the identity the scenario runner uses to submit Initial.
const SetupUser = "setup"

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return s, nil
}

// ParseScenario parses scenario YAML from memory.
// Unknown fields are rejected so typos in scenario files fail loudly.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if s.Document == "" {
		return nil, fmt.Errorf("scenario missing document id")
	}
	for i, step := range s.Steps {
		if step.User == "" {
			return nil, fmt.Errorf("step %d: missing user", i)
		}
		if len(step.Op) == 0 {
			return nil, fmt.Errorf("step %d: missing op", i)
		}
	}
	return &s, nil
}
