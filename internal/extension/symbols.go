package extension

import (
	"context"
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/hookapi"
	"github.com/stratumlabs/stratum/internal/mixinapi"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

// symbols is the hand-maintained interp.Exports table exposing the
// extension authoring surface to the yaegi interpreter. Unlike yaegi's
// stdlib.Symbols (generated by its extract tool from the real standard
// library), this table is curated by hand: extensions only ever need
// hookapi/runnerapi/mixinapi plus the few core types those APIs speak
// in, so there is no benefit to code-generating a wider surface.
var symbols = interp.Exports{
	"github.com/stratumlabs/stratum/internal/extension/extension": {
		"Module": reflect.ValueOf((*Module)(nil)),
	},
	"github.com/stratumlabs/stratum/internal/hookapi/hookapi": {
		"Registry":    reflect.ValueOf((*hookapi.Registry)(nil)),
		"NewRegistry": reflect.ValueOf(hookapi.NewRegistry),
	},
	"github.com/stratumlabs/stratum/internal/hook/hook": {
		"Descriptor":        reflect.ValueOf((*hook.Descriptor)(nil)),
		"Func":              reflect.ValueOf((*hook.Func)(nil)),
		"Option":            reflect.ValueOf((*hook.Option)(nil)),
		"Phase":             reflect.ValueOf((*hook.Phase)(nil)),
		"Condition":         reflect.ValueOf((*hook.Condition)(nil)),
		"Pre":               reflect.ValueOf(hook.Pre),
		"Post":              reflect.ValueOf(hook.Post),
		"ConditionAlways":   reflect.ValueOf(hook.ConditionAlways),
		"ConditionComplete": reflect.ValueOf(hook.ConditionComplete),
		"ConditionFailed":   reflect.ValueOf(hook.ConditionFailed),
		"All":               reflect.ValueOf(hook.All),
		"WithLabel":         reflect.ValueOf(hook.WithLabel),
		"WithBefore":        reflect.ValueOf(hook.WithBefore),
		"WithAfter":         reflect.ValueOf(hook.WithAfter),
		"WithPriority":      reflect.ValueOf(hook.WithPriority),
		"WithCondition":     reflect.ValueOf(hook.WithCondition),
	},
	"github.com/stratumlabs/stratum/internal/runnerapi/runnerapi": {
		"Registry":              reflect.ValueOf((*runnerapi.Registry)(nil)),
		"NewRegistry":           reflect.ValueOf(runnerapi.NewRegistry),
		"Descriptor":            reflect.ValueOf((*runnerapi.Descriptor)(nil)),
		"Func":                  reflect.ValueOf((*runnerapi.Func)(nil)),
		"Option":                reflect.ValueOf((*runnerapi.Option)(nil)),
		"OutputRule":            reflect.ValueOf((*runnerapi.OutputRule)(nil)),
		"WithLabel":             reflect.ValueOf(runnerapi.WithLabel),
		"WithIndividualSamples": reflect.ValueOf(runnerapi.WithIndividualSamples),
		"WithOutput":            reflect.ValueOf(runnerapi.WithOutput),
		"WithOutputRename":      reflect.ValueOf(runnerapi.WithOutputRename),
	},
	"github.com/stratumlabs/stratum/internal/mixinapi/mixinapi": {
		"Registry":    reflect.ValueOf((*mixinapi.Registry)(nil)),
		"NewRegistry": reflect.ValueOf(mixinapi.NewRegistry),
	},
	"github.com/stratumlabs/stratum/internal/sample/sample": {
		"Sample":       reflect.ValueOf((*sample.Sample)(nil)),
		"Collection":   reflect.ValueOf((*sample.Collection)(nil)),
		"SampleMixin":  reflect.ValueOf((*sample.SampleMixin)(nil)),
		"SamplesMixin": reflect.ValueOf((*sample.SamplesMixin)(nil)),
		"New":          reflect.ValueOf(sample.New),
	},
	"github.com/stratumlabs/stratum/internal/container/container": {
		"Container": reflect.ValueOf((*container.Container)(nil)),
		"New":       reflect.ValueOf(container.New),
	},
	"context/context": {
		"Context":    reflect.ValueOf((*context.Context)(nil)),
		"Background": reflect.ValueOf(context.Background),
	},
}
