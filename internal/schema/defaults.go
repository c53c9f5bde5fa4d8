package schema

import (
	"path/filepath"

	"github.com/stratumlabs/stratum/internal/container"
)

// ApplyDefaults sets any leaf in instance that is still unset to the
// schema's default for that leaf, and coerces "path"-typed leaves to a
// cleaned filesystem path string.
func ApplyDefaults(doc *Document, instance *container.Container) {
	for _, leaf := range doc.Properties() {
		if !instance.Has(leaf.Path...) {
			if leaf.Default == nil {
				continue
			}
			_ = instance.Set(leaf.Path, leaf.Default)
		}
		if leaf.Type == TypePath {
			if v, err := instance.Get(leaf.Path...); err == nil {
				if s, ok := v.(string); ok && s != "" {
					_ = instance.Set(leaf.Path, filepath.Clean(s))
				}
			}
		}
	}
}
