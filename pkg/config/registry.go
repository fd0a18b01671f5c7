package config

import (
	"errors"
	"fmt"
	"strings"
)

// AllCollections is the selector sentinel that resolves to every registered collection.
const AllCollections = "all"

// ErrUnknownCollection is returned when a selector names no registered collection.
var ErrUnknownCollection = errors.New("unknown collection")

// CollectionConfig declares one asset category. Directories and the metadata
// file are relative to the public directory unless absolute.
type CollectionConfig struct {
	Name         string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Label        string `mapstructure:"label" json:"label" yaml:"label" toml:"label"`
	SourceDir    string `mapstructure:"source_dir" json:"sourceDir" yaml:"source_dir" toml:"source_dir"`
	VariantDir   string `mapstructure:"variant_dir" json:"variantDir" yaml:"variant_dir" toml:"variant_dir"`
	MetadataFile string `mapstructure:"metadata_file" json:"metadataFile" yaml:"metadata_file" toml:"metadata_file"`
}

// DisplayLabel returns the label, falling back to the name.
func (c CollectionConfig) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Registry is the ordered, validated list of collections.
type Registry struct {
	collections []CollectionConfig
}

// NewRegistry validates collections and returns a registry preserving their order.
func NewRegistry(collections []CollectionConfig) (*Registry, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("%w: at least one collection is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(collections))
	for i, c := range collections {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: collection %d has no name", ErrInvalidConfig, i)
		case name == AllCollections:
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalidConfig, AllCollections)
		case c.SourceDir == "" || c.VariantDir == "" || c.MetadataFile == "":
			return nil, fmt.Errorf("%w: collection %q needs source_dir, variant_dir and metadata_file", ErrInvalidConfig, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate collection %q", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}
	}
	out := make([]CollectionConfig, len(collections))
	copy(out, collections)
	return &Registry{collections: out}, nil
}

// All returns every collection in declaration order.
func (r *Registry) All() []CollectionConfig {
	out := make([]CollectionConfig, len(r.collections))
	copy(out, r.collections)
	return out
}

// Names returns collection names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collections))
	for _, c := range r.collections {
		names = append(names, c.Name)
	}
	return names
}

// Get looks up a collection by name.
func (r *Registry) Get(name string) (CollectionConfig, bool) {
	for _, c := range r.collections {
		if c.Name == name {
			return c, true
		}
	}
	return CollectionConfig{}, false
}

// Resolve turns a selector into the collections to process.
func (r *Registry) Resolve(selector string) ([]CollectionConfig, error) {
	selector = strings.TrimSpace(selector)
	if selector == AllCollections {
		return r.All(), nil
	}
	if c, ok := r.Get(selector); ok {
		return []CollectionConfig{c}, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s, %s)", ErrUnknownCollection, selector, strings.Join(r.Names(), ", "), AllCollections)
}
