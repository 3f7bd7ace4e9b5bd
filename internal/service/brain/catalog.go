package brain

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/sandevgo/parley/pkg/textsim"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML string

// IntentEntry is one row of the static catalog.
type IntentEntry struct {
	Name      string   `yaml:"name"`
	Patterns  []string `yaml:"patterns"`
	Responses []string `yaml:"responses"`

	tokens []textsim.TokenSet
}

// Catalog is the immutable intent table. Entries keep file order; the
// first entry without patterns supplies the default pool.
type Catalog struct {
	Intents []IntentEntry `yaml:"intents"`

	fallback []string
}

// LoadCatalog decodes a catalog and pre-tokenizes its patterns.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("brain: decode catalog yaml: %w", err)
	}

	for i := range c.Intents {
		e := &c.Intents[i]
		if len(e.Patterns) == 0 {
			if c.fallback == nil {
				c.fallback = e.Responses
			}
			continue
		}
		e.tokens = make([]textsim.TokenSet, len(e.Patterns))
		for j, p := range e.Patterns {
			e.tokens[j] = textsim.Tokenize(p)
		}
	}
	return &c, nil
}

var builtinCatalog = mustLoadBuiltin()

func mustLoadBuiltin() *Catalog {
	c, err := LoadCatalog(strings.NewReader(catalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	return builtinCatalog
}

// Fallback returns the default response pool.
func (c *Catalog) Fallback() []string {
	return c.fallback
}

func (e *IntentEntry) matchable() bool {
	return len(e.Patterns) > 0 && len(e.Responses) > 0
}

// DefaultCatalogSource returns the YAML the built-in catalog is decoded from.
func DefaultCatalogSource() string {
	return catalogYAML
}
