package flow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes a flow: an ordered list of steps plus the state
// handlers to attach, referenced by registry name.
type Definition struct {
	Name     string           `yaml:"name"`
	Handlers []string         `yaml:"handlers"`
	Steps    []StepDefinition `yaml:"steps"`
}

// StepDefinition declares one step. Uses selects the step kind; With
// carries kind-specific options decoded by the step factory.
type StepDefinition struct {
	Name string         `yaml:"name"`
	Uses string         `yaml:"uses"`
	With map[string]any `yaml:"with"`
}

// LoadDefinition reads and validates a flow file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse flow file: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks structural invariants of the definition.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("flow name is required")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("flow %q has no steps", d.Name)
	}
	seen := make(map[string]bool, len(d.Steps))
	for i, s := range d.Steps {
		if s.Name == "" {
			return fmt.Errorf("step %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate step name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Uses == "" {
			return fmt.Errorf("step %q does not declare a kind", s.Name)
		}
	}
	return nil
}
