// Package container implements the path-addressable nested key-value store
// used for both the pipeline Config and each Sample's extension-defined
// payload.
package container

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
)

func init() {
	// Register the dynamic value types a Container's map[string]any can
	// hold so gob can decode them back out of an interface{} slot (used
	// by internal/runcache when persisting a Sample's Extra container).
	gob.Register([]any{})
	gob.Register(map[string]any{})
	gob.Register("")
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(false)
}

// Container is a recursive associative map. Keys may be a single string or
// an ordered path of strings addressing a nested value; inserting along a
// path creates intermediate Containers as needed. Any plain
// map[string]any value inserted is promoted to a Container so the whole
// tree stays uniformly addressable.
type Container struct {
	data map[string]any
}

// New returns an empty Container.
func New() *Container {
	return &Container{data: map[string]any{}}
}

// FromMap builds a Container from a plain map, promoting any nested
// map[string]any values to Containers recursively.
func FromMap(m map[string]any) *Container {
	c := New()
	for k, v := range m {
		c.data[k] = promote(v)
	}
	return c
}

func promote(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case *Container:
		return t
	case map[any]any:
		// yaml.v3 can decode mappings with non-string keys this way; only
		// string keys are meaningful for a Container path segment.
		converted := make(map[string]any, len(t))
		for k, val := range t {
			converted[fmt.Sprintf("%v", k)] = val
		}
		return FromMap(converted)
	default:
		return v
	}
}

// Set inserts value at the given path, creating intermediate Containers as
// needed. A single-segment path is equivalent to a top-level assignment.
func (c *Container) Set(path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("container: key path must have at least one segment")
	}
	cur := c
	for _, seg := range path[:len(path)-1] {
		existing, ok := cur.data[seg]
		if !ok {
			child := New()
			cur.data[seg] = child
			cur = child
			continue
		}
		child, ok := existing.(*Container)
		if !ok {
			return fmt.Errorf("container: %q is not a nested container", seg)
		}
		cur = child
	}
	cur.data[path[len(path)-1]] = promote(value)
	return nil
}

// Get returns the value at path, or an error if any segment is absent.
func (c *Container) Get(path ...string) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("container: key path must have at least one segment")
	}
	cur := c
	for i, seg := range path {
		v, ok := cur.data[seg]
		if !ok {
			return nil, fmt.Errorf("container: key %q not found", seg)
		}
		if i == len(path)-1 {
			return v, nil
		}
		child, ok := v.(*Container)
		if !ok {
			return nil, fmt.Errorf("container: %q is not a nested container", seg)
		}
		cur = child
	}
	return nil, fmt.Errorf("container: unreachable")
}

// GetOr returns the value at path, or fallback if the path is absent.
func (c *Container) GetOr(fallback any, path ...string) any {
	v, err := c.Get(path...)
	if err != nil {
		return fallback
	}
	return v
}

// Has reports whether every segment of path exists.
func (c *Container) Has(path ...string) bool {
	_, err := c.Get(path...)
	return err == nil
}

// Delete removes the value at path, if present. It is a no-op if any
// intermediate segment is missing.
func (c *Container) Delete(path ...string) {
	if len(path) == 0 {
		return
	}
	cur := c
	for _, seg := range path[:len(path)-1] {
		child, ok := cur.data[seg].(*Container)
		if !ok {
			return
		}
		cur = child
	}
	delete(cur.data, path[len(path)-1])
}

// Keys returns the top-level keys in sorted order.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the underlying map. Callers must not mutate nested
// *Container values directly other than through Set/Delete.
func (c *Container) Raw() map[string]any {
	return c.data
}

// Clone produces a deep copy of the Container.
func (c *Container) Clone() *Container {
	out := New()
	for k, v := range c.data {
		out.data[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Container:
		return t.Clone()
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	default:
		return v
	}
}

// Merge recursively combines other into c. Scalars and sequences in other
// take precedence over c's values at the same path (other is "more
// specific"); sequences are unioned rather than replaced when both sides
// hold a slice at the same key.
func (c *Container) Merge(other *Container) {
	for k, v := range other.data {
		existing, ok := c.data[k]
		if !ok {
			c.data[k] = cloneValue(v)
			continue
		}
		switch ev := existing.(type) {
		case *Container:
			if ov, ok := v.(*Container); ok {
				ev.Merge(ov)
				continue
			}
			c.data[k] = cloneValue(v)
		case []any:
			if ov, ok := v.([]any); ok {
				c.data[k] = unionSlices(ev, ov)
				continue
			}
			c.data[k] = cloneValue(v)
		default:
			c.data[k] = cloneValue(v)
		}
	}
}

func unionSlices(a, b []any) []any {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]any, 0, len(a)+len(b))
	add := func(items []any) {
		for _, it := range items {
			key := fmt.Sprintf("%v", it)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, it)
		}
	}
	add(a)
	add(b)
	return out
}

// ToPlain converts the Container back into plain map[string]any/[]any
// values, suitable for YAML/JSON marshaling.
func ToPlain(v any) any {
	switch t := v.(type) {
	case *Container:
		out := make(map[string]any, len(t.data))
		for k, val := range t.data {
			out[k] = ToPlain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToPlain(e)
		}
		return out
	default:
		return v
	}
}

// GobEncode satisfies gob.GobEncoder by round-tripping through the
// plain-map view, since Container's internal field is unexported and
// gob cannot see it directly. Used by internal/runcache to persist a
// Sample's Extra container alongside a cached runner result.
func (c *Container) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ToPlain(c)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode satisfies gob.GobDecoder, the inverse of GobEncode.
func (c *Container) GobDecode(data []byte) error {
	var plain map[string]any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&plain); err != nil {
		return err
	}
	*c = *FromMap(plain)
	return nil
}
