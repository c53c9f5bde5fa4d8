// Package hookapi is the extension authoring surface for registering
// hooks. An extension's Register function receives a *Registry and
// calls PreHook/PostHook on it; the loader collects the accumulated
// descriptors afterward.
package hookapi

import "github.com/stratumlabs/stratum/internal/hook"

// Registry accumulates hook descriptors contributed by one extension,
// in call order.
type Registry struct {
	descriptors []hook.Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// PreHook registers a pre-phase hook.
func (r *Registry) PreHook(name string, fn hook.Func, opts ...hook.Option) {
	r.descriptors = append(r.descriptors, hook.PreHook(name, fn, opts...))
}

// PostHook registers a post-phase hook.
func (r *Registry) PostHook(name string, fn hook.Func, opts ...hook.Option) {
	r.descriptors = append(r.descriptors, hook.PostHook(name, fn, opts...))
}

// Descriptors returns every hook registered so far, in registration
// order.
func (r *Registry) Descriptors() []hook.Descriptor {
	out := make([]hook.Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}
