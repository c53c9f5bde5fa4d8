package hookapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/sample"
)

func echo(ctx context.Context, s sample.Collection, cfg *container.Container) (sample.Collection, error) {
	return s, nil
}

func TestRegistryAccumulatesInCallOrder(t *testing.T) {
	r := NewRegistry()
	r.PreHook("fetch", echo)
	r.PostHook("notify", echo, hook.WithCondition(hook.ConditionFailed))

	got := r.Descriptors()
	require.Len(t, got, 2)
	assert.Equal(t, "fetch", got[0].Name)
	assert.Equal(t, hook.Pre, got[0].When)
	assert.Equal(t, "notify", got[1].Name)
	assert.Equal(t, hook.ConditionFailed, got[1].Condition)
}

func TestDescriptorsReturnsACopy(t *testing.T) {
	r := NewRegistry()
	r.PreHook("a", echo)

	got := r.Descriptors()
	got[0].Name = "mutated"

	assert.Equal(t, "a", r.Descriptors()[0].Name)
}
