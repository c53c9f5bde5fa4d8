// Package hook implements hook descriptors and the dependency resolver
// that orders them within a phase.
package hook

import (
	"context"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/sample"
)

// Phase identifies which half of a run a hook participates in.
type Phase string

const (
	Pre  Phase = "pre"
	Post Phase = "post"
)

// Condition selects which post-hook samples a hook sees. Meaningless for
// pre-hooks (always run over the full input set).
type Condition string

const (
	ConditionAlways   Condition = "always"
	ConditionComplete Condition = "complete"
	ConditionFailed   Condition = "failed"
)

// All is the sentinel dependency name meaning "every other hook of the
// same phase".
const All = "all"

// Func is the transformation a hook descriptor wraps. It receives the
// samples selected for its phase/condition and the effective Config, and
// returns the (possibly modified) samples to carry forward.
type Func func(ctx context.Context, samples sample.Collection, cfg *container.Container) (sample.Collection, error)

// Descriptor is a registered hook: name, scheduling phase, dependency
// constraints, and the function to run.
//
// Priority is a tie-breaker for the topological sort, ascending, with a
// nil Priority meaning "lowest priority" (runs last among ties).
type Descriptor struct {
	Name      string
	Label     string
	When      Phase
	Condition Condition
	Before    []string
	After     []string
	Priority  *float64
	Fn        Func
}

// PreHook builds a pre-phase Descriptor.
func PreHook(name string, fn Func, opts ...Option) Descriptor {
	d := Descriptor{Name: name, Label: name, When: Pre, Fn: fn}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// PostHook builds a post-phase Descriptor. Condition defaults to
// ConditionAlways when not overridden by WithCondition.
func PostHook(name string, fn Func, opts ...Option) Descriptor {
	d := Descriptor{Name: name, Label: name, When: Post, Condition: ConditionAlways, Fn: fn}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Option customizes a Descriptor built by PreHook/PostHook.
type Option func(*Descriptor)

func WithLabel(label string) Option {
	return func(d *Descriptor) { d.Label = label }
}

func WithBefore(names ...string) Option {
	return func(d *Descriptor) { d.Before = append(d.Before, names...) }
}

func WithAfter(names ...string) Option {
	return func(d *Descriptor) { d.After = append(d.After, names...) }
}

func WithPriority(p float64) Option {
	return func(d *Descriptor) { d.Priority = &p }
}

func WithCondition(c Condition) Option {
	return func(d *Descriptor) { d.Condition = c }
}

func priorityOf(d Descriptor) float64 {
	if d.Priority == nil {
		return positiveInfinity
	}
	return *d.Priority
}
