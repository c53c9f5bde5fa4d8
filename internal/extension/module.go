// Package extension implements the module loader: discover extension
// files under a modules directory, load each in isolation via a
// sandboxed Go interpreter, and collect the hooks/runners/mixins it
// registers.
package extension

import (
	"github.com/stratumlabs/stratum/internal/hookapi"
	"github.com/stratumlabs/stratum/internal/mixinapi"
	"github.com/stratumlabs/stratum/internal/runnerapi"
)

// Module is the registration surface an extension's Register function
// receives. Extensions call Hooks.PreHook/PostHook, Runners.Runner, and
// Mixins.Mixin on the registries it carries; the loader reads them back
// afterward.
type Module struct {
	Hooks   *hookapi.Registry
	Runners *runnerapi.Registry
	Mixins  *mixinapi.Registry
}

// NewModule returns a Module with freshly initialized registries, one
// per extension source file loaded.
func NewModule() *Module {
	return &Module{
		Hooks:   hookapi.NewRegistry(),
		Runners: runnerapi.NewRegistry(),
		Mixins:  mixinapi.NewRegistry(),
	}
}
