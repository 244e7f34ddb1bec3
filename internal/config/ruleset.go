package config

import (
	"fmt"
	"os"

	"github.com/modernapi/modernapi/internal/rules"
	"gopkg.in/yaml.v3"
)

// Ruleset is the optional YAML policy file adjusting the built-in rubric:
//
//	rules:
//	  versioning:
//	    points: -20
//	  has_description:
//	    enabled: false
//
// Rule registration order is fixed; only weights and presence change.
type Ruleset struct {
	Rules map[string]rules.Override `yaml:"rules"`
}

// LoadRuleset reads a ruleset file. An empty path returns an empty ruleset
// (all defaults).
func LoadRuleset(path string) (*Ruleset, error) {
	if path == "" {
		return &Ruleset{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset %s: %w", path, err)
	}

	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing ruleset %s: %w", path, err)
	}
	return &rs, nil
}
