package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/rentapp/internal/property"
)

// seedFile is the on-disk shape of a seed catalog.
type seedFile struct {
	Properties []DisplayProperty `yaml:"properties"`
}

// ParseSeed decodes a YAML seed catalog. Seed entries never have an owner.
func ParseSeed(data []byte) ([]DisplayProperty, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Properties))
	for i := range f.Properties {
		p := &f.Properties[i]
		if p.ID == "" {
			return nil, fmt.Errorf("seed property %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("seed property id %q is duplicated", p.ID)
		}
		seen[p.ID] = true

		p.OwnerID = ""
		p.Source = SourceSeed
		if p.Status == "" {
			p.Status = property.StatusAvailable
		}
		if !property.ValidListingStatus(string(p.Status)) {
			return nil, fmt.Errorf("seed property %q: invalid status %q", p.ID, p.Status)
		}
	}
	return f.Properties, nil
}

// LoadSeed reads a seed catalog file. An empty path yields an empty catalog.
func LoadSeed(path string) ([]DisplayProperty, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed catalog: %w", err)
	}
	return ParseSeed(data)
}
