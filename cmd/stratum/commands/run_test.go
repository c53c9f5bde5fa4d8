package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

func noopHookFn(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
	return s, nil
}

func TestResolvePhaseSeparatesPreAndPost(t *testing.T) {
	descs := []hook.Descriptor{
		hook.PreHook("normalize", noopHookFn),
		hook.PostHook("report", noopHookFn),
		hook.PreHook("dedupe", noopHookFn, hook.WithAfter("normalize")),
	}

	pre, err := resolvePhase(descs, hook.Pre)
	require.NoError(t, err)
	require.Len(t, pre, 2)
	assert.Equal(t, "normalize", pre[0].Name)
	assert.Equal(t, "dedupe", pre[1].Name)

	post, err := resolvePhase(descs, hook.Post)
	require.NoError(t, err)
	require.Len(t, post, 1)
	assert.Equal(t, "report", post[0].Name)
}

func TestResolvePhaseSurfacesCycleAsError(t *testing.T) {
	descs := []hook.Descriptor{
		hook.PreHook("a", noopHookFn, hook.WithAfter("b")),
		hook.PreHook("b", noopHookFn, hook.WithAfter("a")),
	}

	_, err := resolvePhase(descs, hook.Pre)
	require.Error(t, err)
}

func TestRunnerSampleIDsSplitsByLinkBy(t *testing.T) {
	samples := sample.Collection{
		{ID: "s1", Extra: container.FromMap(map[string]any{"batch": "a"})},
		{ID: "s2", Extra: container.FromMap(map[string]any{"batch": "a"})},
		{ID: "s3", Extra: container.FromMap(map[string]any{"batch": "b"})},
	}

	notSplit := runnerSampleIDs(samples, runnerapi.Descriptor{Name: "whole"})
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, notSplit)

	split := runnerSampleIDs(samples, runnerapi.Descriptor{Name: "per-batch", IndividualSamples: true, LinkBy: "batch"})
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, split)
}
