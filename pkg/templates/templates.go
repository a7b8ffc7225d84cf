// Package templates maps assertion id + severity pairs to the
// human-readable title and description shown in reports. The catalog is
// external to the checker core: rules only ever carry ids and context
// strings, never display text.
package templates

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Entry is the display text for one id+severity pair.
type Entry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Resolver resolves assertion display text. Immutable after load.
type Resolver struct {
	entries map[string]map[string]Entry // id -> severity -> entry
}

// Load parses the embedded catalog.
func Load() (*Resolver, error) {
	return LoadBytes(embeddedCatalog)
}

// LoadBytes parses a catalog from raw YAML. Malformed catalogs are a
// configuration error, raised here at load time and never per call.
func LoadBytes(data []byte) (*Resolver, error) {
	entries := map[string]map[string]Entry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}
	return &Resolver{entries: entries}, nil
}

// Lookup returns the title and description for an id+severity pair, or
// empty strings when no definition exists.
func (r *Resolver) Lookup(id string, severity string) (string, string) {
	e, ok := r.entries[id][severity]
	if !ok {
		return "", ""
	}
	return e.Title, e.Description
}

// Pair names one id+severity combination for validation.
type Pair struct {
	ID       string
	Severity string
}

// Validate confirms every referenced pair has a catalog definition. A
// miss is a hard configuration error at startup, not a per-call failure.
func (r *Resolver) Validate(pairs []Pair) error {
	for _, p := range pairs {
		if _, ok := r.entries[p.ID][p.Severity]; !ok {
			return fmt.Errorf("template catalog missing definition for %s.%s", p.ID, p.Severity)
		}
	}
	return nil
}
