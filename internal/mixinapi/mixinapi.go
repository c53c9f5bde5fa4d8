// Package mixinapi is the extension authoring surface for registering
// per-samples and per-sample augmentations.
package mixinapi

import "github.com/stratumlabs/stratum/internal/sample"

// Registry accumulates mixin registrations contributed by one
// extension, in registration order.
type Registry struct {
	inner *sample.Registry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{inner: sample.NewRegistry()}
}

// Mixin registers a samples mixin and, optionally, a paired sample
// mixin (pass nil when the extension only augments the collection as a
// whole).
func (r *Registry) Mixin(name string, samplesMixin sample.SamplesMixin, sampleMixin sample.SampleMixin) {
	r.inner.Register(name, samplesMixin, sampleMixin)
}

// Into merges this extension's registered mixins into the shared
// sample.Registry fused at startup, preserving cross-extension
// insertion order.
func (r *Registry) Into(target *sample.Registry) {
	for _, reg := range r.inner.Registrations() {
		target.Register(reg.Name, reg.SamplesMixin, reg.SampleMixin)
	}
}

// Count returns how many mixins this extension registered, used by the
// module browser's summary view.
func (r *Registry) Count() int {
	return len(r.inner.Registrations())
}
