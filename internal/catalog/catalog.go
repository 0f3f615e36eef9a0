// Package catalog loads the static welfare-scheme catalog compiled into the
// binary. The catalog and its guideline passages are immutable for the
// process lifetime.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nitisetu/niti-setu/internal/domain"
)

//go:embed schemes.yaml
var schemesYAML []byte

// GenericGuideline is used when a scheme has no registered guideline passage.
const GenericGuideline = "General agricultural rules."

// Catalog is the fixed scheme list plus guideline passages keyed by scheme id.
type Catalog struct {
	schemes    []domain.Scheme
	guidelines map[string]string
	byID       map[string]domain.Scheme
}

type catalogFile struct {
	Schemes    []domain.Scheme   `yaml:"schemes"`
	Guidelines map[string]string `yaml:"guidelines"`
}

// Load parses the embedded catalog. Duplicate or empty scheme ids are
// rejected so every verdict can be resolved unambiguously.
func Load() (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(schemesYAML, &f); err != nil {
		return nil, fmt.Errorf("op=catalog.Load: %w", err)
	}
	if len(f.Schemes) == 0 {
		return nil, fmt.Errorf("op=catalog.Load: %w: empty scheme list", domain.ErrInvalidArgument)
	}
	byID := make(map[string]domain.Scheme, len(f.Schemes))
	for _, s := range f.Schemes {
		if s.ID == "" {
			return nil, fmt.Errorf("op=catalog.Load: %w: scheme %q has empty id", domain.ErrInvalidArgument, s.Name)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("op=catalog.Load: %w: duplicate scheme id %q", domain.ErrInvalidArgument, s.ID)
		}
		byID[s.ID] = s
	}
	if f.Guidelines == nil {
		f.Guidelines = map[string]string{}
	}
	return &Catalog{schemes: f.Schemes, guidelines: f.Guidelines, byID: byID}, nil
}

// MustLoad is Load for process startup paths where a broken embedded catalog
// is unrecoverable.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Schemes returns the catalog entries in declaration order.
func (c *Catalog) Schemes() []domain.Scheme { return c.schemes }

// Len returns the number of schemes.
func (c *Catalog) Len() int { return len(c.schemes) }

// Get returns the scheme for id.
func (c *Catalog) Get(id string) (domain.Scheme, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Guideline returns the guideline passage for a scheme id, or the generic
// fallback when none is registered.
func (c *Catalog) Guideline(id string) string {
	if g, ok := c.guidelines[id]; ok && g != "" {
		return g
	}
	return GenericGuideline
}
