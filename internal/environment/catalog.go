// Package environment holds the static catalog of physics problems and the
// per-problem parameter generation and answer checking. Catalog metadata
// (statements, probes) lives in embedded YAML; the physics stays in code.
package environment

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFS embed.FS

const (
	TypeBlockOnIncline   = "block_on_incline"
	TypePendulum         = "pendulum"
	TypeProjectileMotion = "projectile_motion"
	TypeRocketEquation   = "rocket_equation"
)

var ErrUnknownType = fmt.Errorf("unknown problem type")

type ProbeSpec struct {
	Name      string `yaml:"name"`
	Available bool   `yaml:"available"`
}

type Spec struct {
	ID        string      `yaml:"id"`
	Title     string      `yaml:"title"`
	Statement string      `yaml:"statement"`
	Probes    []ProbeSpec `yaml:"probes"`
}

type catalogFile struct {
	Environments []Spec `yaml:"environments"`
}

type Catalog struct {
	specs map[string]Spec
	order []string
}

func LoadCatalog() (*Catalog, error) {
	raw, err := catalogFS.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Environments) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	c := &Catalog{specs: make(map[string]Spec, len(file.Environments))}
	for _, spec := range file.Environments {
		if spec.ID == "" || spec.Statement == "" {
			return nil, fmt.Errorf("catalog entry missing id or statement")
		}
		if _, dup := c.specs[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", spec.ID)
		}
		if !knownType(spec.ID) {
			return nil, fmt.Errorf("catalog entry %q has no generator", spec.ID)
		}
		c.specs[spec.ID] = spec
		c.order = append(c.order, spec.ID)
	}
	return c, nil
}

// Types returns problem type ids in catalog order.
func (c *Catalog) Types() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Spec(problemType string) (Spec, bool) {
	spec, ok := c.specs[problemType]
	return spec, ok
}

// Generate draws fresh physically consistent parameters for the given
// problem type.
func (c *Catalog) Generate(problemType string) (*Environment, error) {
	spec, ok := c.specs[problemType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, problemType)
	}
	env := &Environment{
		Type:      spec.ID,
		Title:     spec.Title,
		Statement: spec.Statement,
		Probes:    probeMap(spec.Probes),
		Params:    generateParams(spec.ID),
	}
	return env, nil
}

// Rehydrate rebuilds an Environment from a stored game state: same catalog
// metadata, previously generated parameters.
func (c *Catalog) Rehydrate(problemType string, params map[string]float64) (*Environment, error) {
	spec, ok := c.specs[problemType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, problemType)
	}
	env := &Environment{
		Type:      spec.ID,
		Title:     spec.Title,
		Statement: spec.Statement,
		Probes:    probeMap(spec.Probes),
		Params:    params,
	}
	return env, nil
}

func probeMap(probes []ProbeSpec) map[string]bool {
	out := make(map[string]bool, len(probes))
	for _, p := range probes {
		out[p.Name] = p.Available
	}
	return out
}

func knownType(id string) bool {
	switch id {
	case TypeBlockOnIncline, TypePendulum, TypeProjectileMotion, TypeRocketEquation:
		return true
	}
	return false
}
