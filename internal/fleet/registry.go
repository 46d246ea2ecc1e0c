// Package fleet maps vehicle numbers to vehicle models using a static table
// of inclusive numeric ranges.
package fleet

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"stoplens.dev/internal/models"
)

//go:embed fleet.yaml
var defaultTable []byte

// Range maps the vehicle numbers Start..End, inclusive, to a model.
type Range struct {
	Start     int    `yaml:"start" validate:"gte=0"`
	End       int    `yaml:"end" validate:"gtefield=Start"`
	Model     string `yaml:"model" validate:"required"`
	Charging  bool   `yaml:"charging"`
	Streetcar bool   `yaml:"streetcar"`
}

// Contains reports whether n falls inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

type table struct {
	Ranges []Range `yaml:"ranges" validate:"dive"`
}

// Registry is an immutable, ordered range table.
type Registry struct {
	ranges []Range
}

// New builds a registry from ranges in declaration order.
func New(ranges []Range) *Registry {
	r := make([]Range, len(ranges))
	copy(r, ranges)
	return &Registry{ranges: r}
}

// Default returns the registry built from the embedded fleet table.
func Default() (*Registry, error) {
	return Parse(defaultTable)
}

// Load reads a YAML fleet table from path, or the embedded table when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fleet table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML fleet table.
func Parse(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing fleet table: %w", err)
	}
	if err := validator.New().Struct(t); err != nil {
		return nil, fmt.Errorf("invalid fleet table: %w", err)
	}
	return New(t.Ranges), nil
}

// Lookup returns the model for vehicleNumber. Numbers that are not integers
// or fall outside every range have no model.
func (r *Registry) Lookup(vehicleNumber string) (models.ModelDescriptor, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(vehicleNumber))
	if err != nil {
		return models.ModelDescriptor{}, false
	}
	for _, rg := range r.ranges {
		if rg.Contains(n) {
			return models.ModelDescriptor{
				Model:     rg.Model,
				Charging:  rg.Charging,
				Streetcar: rg.Streetcar,
			}, true
		}
	}
	return models.ModelDescriptor{}, false
}

// Len is the number of ranges.
func (r *Registry) Len() int {
	return len(r.ranges)
}

// Ranges returns a copy of the table in declaration order.
func (r *Registry) Ranges() []Range {
	out := make([]Range, len(r.ranges))
	copy(out, r.ranges)
	return out
}
