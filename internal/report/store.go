package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cooldown-planner/assign"
	"cooldown-planner/optimizer"
)

// SavePlan writes p as YAML when path ends in .yml or .yaml and as
// indented JSON otherwise.
func SavePlan(path string, p *optimizer.Plan) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(p)
	} else {
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadPlan reads a plan written by SavePlan. Assignments without an id get
// the one assign.New derives from their fields. The result carries no model;
// check it with Plan.Revalidate before trusting it.
func LoadPlan(path string) (*optimizer.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var p optimizer.Plan
	if isYAML(path) {
		err = yaml.Unmarshal(data, &p)
	} else {
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", path, err)
	}
	for i, a := range p.Assignments {
		if a.ID == "" {
			p.Assignments[i] = assign.New(a.Character, a.Spell, a.Attack, a.Lead)
		}
	}
	return &p, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
