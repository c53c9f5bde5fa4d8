// Package schema implements the merged JSON-schema-like document that
// drives Config defaulting, validation, and CLI flag generation.
package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stratumlabs/stratum/internal/container"
)

// LeafType is the set of typetags a schema leaf may carry.
type LeafType string

const (
	TypeBool    LeafType = "bool"
	TypeInteger LeafType = "integer"
	TypeNumber  LeafType = "number"
	TypeString  LeafType = "string"
	TypePath    LeafType = "path"
	TypeArray   LeafType = "array"
	TypeMapping LeafType = "mapping"
	TypeEnum    LeafType = "enum"
)

// Leaf describes one addressable configuration value derived from the
// schema tree.
type Leaf struct {
	Path        []string
	Default     any
	Description string
	Secret      bool
	Type        LeafType
	Enum        []string
}

// FlagName joins Path with underscores, following the "--a_b_c" flag
// convention.
func (l Leaf) FlagName() string {
	return strings.Join(l.Path, "_")
}

// Document is a merged schema: a tree of nodes each optionally carrying
// "type", "default", "description", "secret", "enum", and nested
// "properties".
type Document struct {
	root *container.Container
}

// Empty returns an empty Document.
func Empty() *Document {
	return &Document{root: container.New()}
}

// Load reads one or more YAML schema fragment files and merges them in
// order; later files are "more specific" and win on scalar conflicts,
// while array-valued fields (e.g. enum lists) are unioned. The CLI's
// LoadSchema loads the --schema base file on its own, then every
// per-extension fragment in a second call that it merges in; there is
// no separate user-schema layer between the two.
func Load(paths ...string) (*Document, error) {
	doc := Empty()
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("schema: reading %s: %w", p, err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("schema: parsing %s: %w", p, err)
		}
		frag := container.FromMap(decoded)
		doc.root.Merge(frag)
	}
	return doc, nil
}

// MergeFragment merges an already-decoded fragment (e.g. one loaded by an
// extension loader from a schema.yaml found next to it) into the
// document in place.
func (d *Document) MergeFragment(decoded map[string]any) {
	d.root.Merge(container.FromMap(decoded))
}

// Root exposes the merged raw schema tree, primarily for validators that
// need the whole JSON-schema document.
func (d *Document) Root() *container.Container {
	return d.root
}

// Properties walks the schema's "properties" tree and returns every leaf
// (a node with no nested "properties") in a deterministic, depth-first
// order.
func (d *Document) Properties() []Leaf {
	props, err := d.root.Get("properties")
	if err != nil {
		return nil
	}
	c, ok := props.(*container.Container)
	if !ok {
		return nil
	}
	return collectLeaves(c, nil)
}

func collectLeaves(node *container.Container, path []string) []Leaf {
	var leaves []Leaf
	for _, key := range node.Keys() {
		v, _ := node.Get(key)
		sub, ok := v.(*container.Container)
		if !ok {
			continue
		}
		childPath := append(append([]string{}, path...), key)
		if nested, err := sub.Get("properties"); err == nil {
			if nestedContainer, ok := nested.(*container.Container); ok {
				leaves = append(leaves, collectLeaves(nestedContainer, childPath)...)
				continue
			}
		}
		leaves = append(leaves, leafFromNode(sub, childPath))
	}
	return leaves
}

func leafFromNode(node *container.Container, path []string) Leaf {
	leaf := Leaf{Path: path}
	if v, err := node.Get("default"); err == nil {
		leaf.Default = v
	}
	if v, err := node.Get("description"); err == nil {
		if s, ok := v.(string); ok {
			leaf.Description = s
		}
	}
	if v, err := node.Get("secret"); err == nil {
		if b, ok := v.(bool); ok {
			leaf.Secret = b
		}
	}
	if v, err := node.Get("enum"); err == nil {
		leaf.Type = TypeEnum
		if items, ok := v.([]any); ok {
			for _, it := range items {
				leaf.Enum = append(leaf.Enum, fmt.Sprintf("%v", it))
			}
		}
		return leaf
	}
	if v, err := node.Get("type"); err == nil {
		if s, ok := v.(string); ok {
			leaf.Type = LeafType(s)
		}
	}
	return leaf
}

// Flags yields the CLI flag projection of every leaf: flag name, key
// path, default, description, secret flag, and typetag.
func (d *Document) Flags() []Leaf {
	return d.Properties()
}
