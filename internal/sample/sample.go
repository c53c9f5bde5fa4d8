// Package sample implements the canonical per-sample record, its
// ordered collection, and the mixin registry that augments both.
package sample

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stratumlabs/stratum/internal/container"
)

// Sample is a single unit of input data: a required ID, optional Files
// and Done flag, plus arbitrary extension-defined fields in Extra.
type Sample struct {
	ID    string
	Files []string
	Done  bool
	Extra *container.Container
}

// New constructs a Sample with an initialized Extra container.
func New(id string) Sample {
	return Sample{ID: id, Extra: container.New()}
}

// Valid reports whether the sample can be fanned out: id is non-empty,
// Files is present, and no file entry is empty.
func (s Sample) Valid() bool {
	if s.ID == "" {
		return false
	}
	if s.Files == nil {
		return false
	}
	for _, f := range s.Files {
		if f == "" {
			return false
		}
	}
	return true
}

// Clone deep-copies a Sample, including its Extra container, so the
// supervisor can hand each runner instance an independent copy.
func (s Sample) Clone() Sample {
	out := Sample{ID: s.ID, Done: s.Done}
	if s.Files != nil {
		out.Files = append([]string(nil), s.Files...)
	}
	if s.Extra != nil {
		out.Extra = s.Extra.Clone()
	} else {
		out.Extra = container.New()
	}
	return out
}

// rawSample is the YAML wire shape: id plus arbitrary extra fields.
type rawSample struct {
	ID    string   `yaml:"id"`
	Files []string `yaml:"files"`
	Done  bool     `yaml:"done"`
	Extra map[string]any
}

// UnmarshalYAML decodes a YAML mapping into rawSample, pulling out the
// well-known keys and stashing everything else in Extra.
func (r *rawSample) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	if v, ok := m["id"]; ok {
		r.ID = fmt.Sprintf("%v", v)
		delete(m, "id")
	}
	if v, ok := m["files"]; ok {
		if items, ok := v.([]any); ok {
			for _, it := range items {
				if it == nil {
					r.Files = append(r.Files, "")
					continue
				}
				r.Files = append(r.Files, fmt.Sprintf("%v", it))
			}
		}
		delete(m, "files")
	}
	if v, ok := m["done"]; ok {
		if b, ok := v.(bool); ok {
			r.Done = b
		}
		delete(m, "done")
	}
	r.Extra = m
	return nil
}

// FromFile loads a Collection from a YAML sequence of mappings, coercing
// each "id" to a string.
func FromFile(path string) (Collection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sample: reading %s: %w", path, err)
	}
	var entries []rawSample
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("sample: parsing %s: %w", path, err)
	}

	out := make(Collection, 0, len(entries))
	for _, e := range entries {
		s := Sample{ID: e.ID, Files: e.Files, Done: e.Done, Extra: container.FromMap(e.Extra)}
		out = append(out, s)
	}
	return out, nil
}
