// Package rubric loads the fixed assessment rubric: four value-neutral
// dimensions, each scored on a balanced -2..+2 scale between two semantic
// anchors. Loaded once at startup and immutable for the process lifetime.
package rubric

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rubric.yaml
var rubricFS embed.FS

const (
	ScaleMin = -2
	ScaleMax = 2
)

type Dimension struct {
	Name      string `yaml:"name" json:"name"`
	LowLabel  string `yaml:"low_label" json:"low_label"`
	HighLabel string `yaml:"high_label" json:"high_label"`
	Criteria  string `yaml:"criteria" json:"criteria"`
}

type Rubric struct {
	Dimensions []Dimension `yaml:"dimensions"`
}

func Load() (*Rubric, error) {
	raw, err := rubricFS.ReadFile("rubric.yaml")
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}
	var r Rubric
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse rubric: %w", err)
	}
	if len(r.Dimensions) == 0 {
		return nil, fmt.Errorf("rubric has no dimensions")
	}
	seen := map[string]bool{}
	for _, d := range r.Dimensions {
		if d.Name == "" || d.LowLabel == "" || d.HighLabel == "" {
			return nil, fmt.Errorf("rubric dimension missing name or labels")
		}
		key := strings.ToLower(d.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate rubric dimension %q", d.Name)
		}
		seen[key] = true
	}
	return &r, nil
}

// ByName looks a dimension up case-insensitively.
func (r *Rubric) ByName(name string) (Dimension, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, d := range r.Dimensions {
		if strings.ToLower(d.Name) == want {
			return d, true
		}
	}
	return Dimension{}, false
}

// ValidScale reports whether v is an allowed Likert value.
func ValidScale(v int) bool {
	return v >= ScaleMin && v <= ScaleMax
}
