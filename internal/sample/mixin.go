package sample

// SampleMixin augments a single Sample in place, typically by writing
// default fields into its Extra container. SamplesMixin augments the
// collection as a whole before its paired per-sample mixin runs.
//
// Go has no runtime inheritance surgery, so fusion is modeled as: an
// extension contributes a pair of plain functions instead of a base
// class, and Registry.Apply runs every contributed function, in
// registration order, over the collection and each of its samples.
type SampleMixin func(*Sample)
type SamplesMixin func(*Collection)

// Registration pairs one extension's samples mixin with its optional
// paired sample mixin.
type Registration struct {
	Name         string
	SamplesMixin SamplesMixin
	SampleMixin  SampleMixin
}

// Registry accumulates mixin registrations in insertion order and fuses
// them into the base Sample/Collection surface once at startup, before
// any pre-hook runs.
type Registry struct {
	registrations []Registration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register records an extension's mixin contribution. sampleMixin may
// be nil when the extension only augments the collection.
func (r *Registry) Register(name string, samplesMixin SamplesMixin, sampleMixin SampleMixin) {
	r.registrations = append(r.registrations, Registration{
		Name:         name,
		SamplesMixin: samplesMixin,
		SampleMixin:  sampleMixin,
	})
}

// Registrations returns every registration in fusion order, for
// merging into another Registry (see mixinapi.Registry.Into).
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, len(r.registrations))
	copy(out, r.registrations)
	return out
}

// Names returns the registered mixin names in fusion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.registrations))
	for i, reg := range r.registrations {
		names[i] = reg.Name
	}
	return names
}

// Apply fuses every registered mixin into c, one registration at a time
// in insertion order: that registration's SamplesMixin runs over the
// whole collection, then its SampleMixin runs over every sample present
// at that point, before the next registration starts. A SamplesMixin can
// thus add or remove samples before its own per-sample augmentation;
// samples it adds are not seen by earlier registrations' SampleMixins.
func (r *Registry) Apply(c *Collection) {
	for _, reg := range r.registrations {
		if reg.SamplesMixin != nil {
			reg.SamplesMixin(c)
		}
		if reg.SampleMixin != nil {
			for i := range *c {
				reg.SampleMixin(&(*c)[i])
			}
		}
	}
}
