// Package catalog holds the immutable, ordered boss catalog.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Boss is one catalog entry. The catalog is read-only after construction;
// runtime combat state (remaining resolve) lives in the root state, not here.
type Boss struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Title       string  `yaml:"title" json:"title"`
	Resolve     float64 `yaml:"resolve" json:"resolve"`
	UnlockLevel int     `yaml:"unlock_level" json:"unlockLevel"`
	Sprite      string  `yaml:"sprite" json:"sprite"`
}

// Catalog is an ordered boss sequence indexed 0..Len()-1.
type Catalog struct {
	bosses []Boss
}

//go:embed bosses.yaml
var embedded []byte

var ErrEmptyCatalog = errors.New("boss catalog must contain at least one boss")

// New builds a catalog from an ordered boss list.
func New(bosses []Boss) (*Catalog, error) {
	if len(bosses) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]Boss, len(bosses))
	copy(out, bosses)
	return &Catalog{bosses: out}, nil
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := parse(embedded)
	if err != nil {
		// The embedded catalog is validated by tests; reaching this means a
		// broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded boss catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

func parse(b []byte) (*Catalog, error) {
	var doc struct {
		Bosses []Boss `yaml:"bosses"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return New(doc.Bosses)
}

// Len returns the number of bosses.
func (c *Catalog) Len() int { return len(c.bosses) }

// Clamp forces an index into the catalog's bounds.
func (c *Catalog) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(c.bosses) {
		return len(c.bosses) - 1
	}
	return i
}

// At returns the boss at index i, clamping out-of-range indices.
func (c *Catalog) At(i int) Boss {
	return c.bosses[c.Clamp(i)]
}

// Next returns the boss after index i, or false when i is the last boss.
func (c *Catalog) Next(i int) (Boss, bool) {
	i = c.Clamp(i)
	if i+1 >= len(c.bosses) {
		return Boss{}, false
	}
	return c.bosses[i+1], true
}
