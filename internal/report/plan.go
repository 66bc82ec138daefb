package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PlanEntry beschreibt eine Entscheidung eines Dry Runs
type PlanEntry struct {
	Action     string         `yaml:"action"`
	Assignment string         `yaml:"assignment"`
	Course     string         `yaml:"course"`
	URL        string         `yaml:"url"`
	TaskID     string         `yaml:"task_id,omitempty"`
	Fields     []string       `yaml:"fields,omitempty"`
	Tracked    []string       `yaml:"tracked,omitempty"`
	Reason     string         `yaml:"reason,omitempty"`
	Payload    map[string]any `yaml:"payload,omitempty"`
}

type Plan struct {
	Entries []PlanEntry `yaml:"operations"`
	Counts  Counts      `yaml:"counts"`
}

// WritePlan schreibt den Plan als YAML
func WritePlan(w io.Writer, plan Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("plan schreiben: %w", err)
	}
	return enc.Close()
}
