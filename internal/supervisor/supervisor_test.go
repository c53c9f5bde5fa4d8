package supervisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

func ids(c sample.Collection) []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.ID
	}
	return out
}

func withDone(c sample.Collection, done map[string]bool) sample.Collection {
	out := c.Clone()
	for i := range out {
		if d, ok := done[out[i].ID]; ok {
			out[i].Done = d
		}
	}
	return out
}

func TestSupervisorFanOutCompletion(t *testing.T) {
	samples := sample.Collection{sample.New("s1"), sample.New("s2"), sample.New("s3")}

	r1 := runnerapi.Descriptor{Name: "r1", Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
		return withDone(s, map[string]bool{"s1": true, "s2": true, "s3": true}), nil
	}}
	r2 := runnerapi.Descriptor{Name: "r2", Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
		return withDone(s, map[string]bool{"s1": true, "s2": false, "s3": true}), nil
	}}

	sup := &Supervisor{Executor: InProcessExecutor{}, Concurrency: 4}
	agg, err := sup.Run(context.Background(), samples, []runnerapi.Descriptor{r1, r2}, container.New())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"s1", "s3"}, ids(agg.FilterFor(hook.ConditionComplete)))
	assert.ElementsMatch(t, []string{"s2"}, ids(agg.FilterFor(hook.ConditionFailed)))
}

func TestSupervisorCrashIsolation(t *testing.T) {
	samples := sample.Collection{sample.New("s1"), sample.New("s2")}

	crashing := runnerapi.Descriptor{Name: "crashing", Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
		return nil, errors.New("boom")
	}}
	healthy := runnerapi.Descriptor{Name: "healthy", Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
		return withDone(s, map[string]bool{"s1": true, "s2": true}), nil
	}}

	sup := &Supervisor{Executor: InProcessExecutor{}, Concurrency: 4}
	agg, err := sup.Run(context.Background(), samples, []runnerapi.Descriptor{crashing, healthy}, container.New())
	require.NoError(t, err)

	// Both samples are covered by both runners; crashing's samples come
	// back done=false (the crash's original-sample fallback), so
	// neither sample is complete, but the run itself did not abort.
	assert.Empty(t, agg.Complete())
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids(agg.Failed()))
}

func TestSupervisorIndividualSamplesSplitsByLinkBy(t *testing.T) {
	s1 := sample.New("s1")
	require.NoError(t, s1.Extra.Set([]string{"batch"}, "a"))
	s2 := sample.New("s2")
	require.NoError(t, s2.Extra.Set([]string{"batch"}, "b"))
	s3 := sample.New("s3")
	require.NoError(t, s3.Extra.Set([]string{"batch"}, "a"))

	var mu sync.Mutex
	var seenGroupSizes []int
	r := runnerapi.Descriptor{
		Name:              "grouped",
		IndividualSamples: true,
		LinkBy:            "batch",
		Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
			mu.Lock()
			seenGroupSizes = append(seenGroupSizes, len(s))
			mu.Unlock()
			out := s.Clone()
			for i := range out {
				out[i].Done = true
			}
			return out, nil
		},
	}

	sup := &Supervisor{Executor: InProcessExecutor{}, Concurrency: 4}
	agg, err := sup.Run(context.Background(), sample.Collection{s1, s2, s3}, []runnerapi.Descriptor{r}, container.New())
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{2, 1}, seenGroupSizes)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, ids(agg.Complete()))
}

func TestSupervisorNilReturnWithoutMutationEmitsDoneOriginal(t *testing.T) {
	samples := sample.Collection{sample.New("s1")}
	r := runnerapi.Descriptor{Name: "passthrough", Main: func(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
		return nil, nil
	}}

	sup := &Supervisor{Executor: InProcessExecutor{}, Concurrency: 1}
	agg, err := sup.Run(context.Background(), samples, []runnerapi.Descriptor{r}, container.New())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"s1"}, ids(agg.Complete()))
}
