// Package catalogfile loads a YAML overlay for the built-in message catalog.
//
// An overlay file looks like:
//
//	messages:
//	  "81": "Störung am Zug"
//	uncertain: ["81"]
//	superseded:
//	  "81": ["80"]
//
// Overlay texts replace or add to the built-in texts, uncertain codes are added,
// and a superseded entry replaces the built-in list for that code.
package catalogfile

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/departure-etl/internal/domain"
)

// Overlay is the parsed content of a catalog overlay file.
type Overlay struct {
	Messages   map[string]string   `yaml:"messages" validate:"dive,keys,number,endkeys,required"`
	Uncertain  []string            `yaml:"uncertain" validate:"dive,number"`
	Superseded map[string][]string `yaml:"superseded" validate:"dive,keys,number,endkeys,min=1,dive,number"`
}

var validate = validator.New()

// Load reads and validates an overlay file.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates overlay YAML.
func Parse(data []byte) (*Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode catalog overlay: %w", err)
	}
	if err := validate.Struct(o); err != nil {
		return nil, fmt.Errorf("validate catalog overlay: %w", err)
	}
	return &o, nil
}

// Entries returns the number of message texts the overlay defines.
func (o *Overlay) Entries() int {
	return len(o.Messages)
}

// Apply merges the overlay over base and returns a new catalog. base is not modified.
func (o *Overlay) Apply(base *domain.Catalog) (*domain.Catalog, error) {
	t := base.Tables()

	maps.Copy(t.Texts, o.Messages)

	for _, code := range o.Uncertain {
		if !slices.Contains(t.Uncertain, code) {
			t.Uncertain = append(t.Uncertain, code)
		}
	}

	for code, others := range o.Superseded {
		t.Superseded[code] = slices.Clone(others)
	}

	c, err := domain.NewCatalog(t)
	if err != nil {
		return nil, fmt.Errorf("apply catalog overlay: %w", err)
	}
	return c, nil
}

// LoadCatalog loads the overlay at path and applies it over base.
// An empty path returns base unchanged.
func LoadCatalog(path string, base *domain.Catalog) (*domain.Catalog, int, error) {
	if path == "" {
		return base, 0, nil
	}
	o, err := Load(path)
	if err != nil {
		return nil, 0, err
	}
	c, err := o.Apply(base)
	if err != nil {
		return nil, 0, err
	}
	return c, o.Entries(), nil
}
