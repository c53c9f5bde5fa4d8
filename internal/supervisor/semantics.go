package supervisor

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/google/uuid"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

// invoke runs one runner instance's Main against group and classifies
// the result. It is shared by the in-process executor and the
// process-isolated child so both apply the exact same rules.
//
//	Samples value                  -> emitted, every sample done|=true
//	nil, input not mutated         -> original emitted, done=true
//	nil, input mutated (field diff) -> original (pre-call) emitted with
//	                                  its done flags unchanged, Mutated=true
//	error                          -> original (pre-call) emitted, Crashed=true
func invoke(ctx context.Context, instance uuid.UUID, main runnerapi.Func, group sample.Collection, cfg *container.Container) Outcome {
	before := group.Clone()
	argument := group.Clone()

	returned, err := main(ctx, argument, cfg)
	if err != nil {
		return Outcome{RunnerInstance: instance, Samples: before, Crashed: true, Err: err.Error()}
	}

	if returned != nil {
		out := returned.Clone()
		for i := range out {
			out[i].Done = true
		}
		return Outcome{RunnerInstance: instance, Samples: out}
	}

	if !mutated(before, argument) {
		out := before.Clone()
		for i := range out {
			out[i].Done = true
		}
		return Outcome{RunnerInstance: instance, Samples: out}
	}

	// The snapshot keeps its pre-call done flags: a mutated-but-not-
	// returned sample is never marked done here, so it classifies as
	// failed unless another runner vouches for it.
	return Outcome{RunnerInstance: instance, Samples: before, Mutated: true}
}

// mutated reports whether after differs from before by ID and field
// values, deciding whether a nil return still needs the "modified but
// not returned" warning.
func mutated(before, after sample.Collection) bool {
	if len(before) != len(after) {
		return true
	}
	byID := make(map[string]sample.Sample, len(before))
	for _, s := range before {
		byID[s.ID] = s
	}
	for _, s := range after {
		prior, ok := byID[s.ID]
		if !ok {
			return true
		}
		if !sameSample(prior, s) {
			return true
		}
	}
	return false
}

func sameSample(a, b sample.Sample) bool {
	if a.ID != b.ID || a.Done != b.Done {
		return false
	}
	if !reflect.DeepEqual(a.Files, b.Files) {
		return false
	}
	return extraEqual(a.Extra, b.Extra)
}

func extraEqual(a, b *container.Container) bool {
	aj, _ := json.Marshal(container.ToPlain(a))
	bj, _ := json.Marshal(container.ToPlain(b))
	return string(aj) == string(bj)
}
