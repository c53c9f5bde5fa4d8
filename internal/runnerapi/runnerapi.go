// Package runnerapi is the extension authoring surface for registering
// runners: a function plus options becomes a Runner descriptor, and
// declarative output copy rules may be attached alongside.
package runnerapi

import (
	"context"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/sample"
)

// Func is a runner's main callable. Its return value drives the
// outcome: a non-nil Collection is
// emitted with done forced true; a nil Collection with no error means
// "forward the original, mark done"; an error means the runner crashed.
type Func func(ctx context.Context, samples sample.Collection, cfg *container.Container) (sample.Collection, error)

// OutputRule is a declarative copy rule accumulated by WithOutput /
// WithOutputRename. The core only preserves and forwards these; an external
// rsync-like collaborator is responsible for acting on them.
type OutputRule struct {
	Glob   string
	DstDir string
	// DstName, when set, renames a single matched file instead of
	// copying into DstDir. Mutually exclusive with DstDir in practice,
	// but the core does not enforce that; it is forwarded verbatim.
	DstName string
}

// Descriptor is a registered Runner.
type Descriptor struct {
	Name              string
	Label             string
	IndividualSamples bool
	LinkBy            string
	Main              Func
	Outputs           []OutputRule

	// SourcePath is the extension file this runner was registered from,
	// stamped on by the loader after Register returns. The supervisor's
	// process executor needs it to reload this one runner's extension
	// inside a freshly spawned OS process, since Main itself is only
	// valid in the process that interpreted it.
	SourcePath string
}

// Option customizes a Descriptor built by Registry.Runner.
type Option func(*Descriptor)

func WithLabel(label string) Option {
	return func(d *Descriptor) { d.Label = label }
}

// WithIndividualSamples marks the runner for per-group fan-out: the
// supervisor splits its samples by linkBy (singletons when empty) and
// launches one instance per group.
func WithIndividualSamples(linkBy string) Option {
	return func(d *Descriptor) {
		d.IndividualSamples = true
		d.LinkBy = linkBy
	}
}

// WithOutput appends a declarative copy rule targeting a directory.
func WithOutput(glob, dst string) Option {
	return func(d *Descriptor) {
		d.Outputs = append(d.Outputs, OutputRule{Glob: glob, DstDir: dst})
	}
}

// WithOutputRename appends a copy rule that renames the single matched
// file to dstName instead of copying into a directory.
func WithOutputRename(glob, dstName string) Option {
	return func(d *Descriptor) {
		d.Outputs = append(d.Outputs, OutputRule{Glob: glob, DstName: dstName})
	}
}

// Registry accumulates runner descriptors contributed by one extension,
// in registration order.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Runner registers a runner. name is used both as the descriptor's Name
// and, absent WithLabel, its Label.
func (r *Registry) Runner(name string, main Func, opts ...Option) {
	d := Descriptor{Name: name, Label: name, Main: main}
	for _, opt := range opts {
		opt(&d)
	}
	r.descriptors = append(r.descriptors, d)
}

// Descriptors returns every runner registered so far.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// StampSourcePath sets SourcePath on every descriptor registered since
// index from (i.e. by the extension file the loader just evaluated),
// leaving already-stamped descriptors untouched.
func (r *Registry) StampSourcePath(from int, path string) {
	for i := from; i < len(r.descriptors); i++ {
		if r.descriptors[i].SourcePath == "" {
			r.descriptors[i].SourcePath = path
		}
	}
}
