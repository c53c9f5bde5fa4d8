// Package config builds the effective run Config: a Container assembled
// from an optional YAML file, CLI flag overrides, and schema defaults,
// then validated against the merged schema.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/schema"
)

// FlagSource abstracts the subset of a flag set Config needs: whether a
// flag was explicitly supplied on the command line, and its current
// value. A CLI flag only overrides the config file when Changed reports
// true; unsupplied flags must not clobber file values.
type FlagSource interface {
	Changed(flagName string) bool
	Value(flagName string) (any, bool)
}

// Load builds the effective Config. path may be empty, meaning no config
// file was given. doc is the fully merged schema (base ∪ user ∪
// per-extension fragments). flags may be nil, meaning no CLI overrides.
func Load(path string, doc *schema.Document, flags FlagSource) (*container.Container, []*schema.ValidationError, error) {
	var cfg *container.Container
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(raw, &decoded); err != nil {
			return nil, nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		cfg = container.FromMap(decoded)
	} else {
		cfg = container.New()
	}

	if flags != nil {
		for _, leaf := range doc.Flags() {
			if !flags.Changed(leaf.FlagName()) {
				continue
			}
			v, ok := flags.Value(leaf.FlagName())
			if !ok {
				continue
			}
			if err := cfg.Set(leaf.Path, v); err != nil {
				return nil, nil, fmt.Errorf("config: applying flag --%s: %w", leaf.FlagName(), err)
			}
		}
	}

	schema.ApplyDefaults(doc, cfg)

	errs := schema.Validate(doc, cfg)
	return cfg, errs, nil
}

// DefaultMap produces the flag-name -> effective-default map used to
// seed a CLI flag set's defaults before parsing, so a --config file
// lets individual flags be omitted. File values win over schema
// defaults.
func DefaultMap(path string, doc *schema.Document) (map[string]any, error) {
	var fromFile *container.Container
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		fromFile = container.FromMap(decoded)
	}

	out := map[string]any{}
	for _, leaf := range doc.Flags() {
		if fromFile != nil {
			if v, err := fromFile.Get(leaf.Path...); err == nil {
				out[leaf.FlagName()] = v
				continue
			}
		}
		if leaf.Default != nil {
			out[leaf.FlagName()] = leaf.Default
		}
	}
	return out, nil
}
