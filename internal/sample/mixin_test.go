package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAppliesInInsertionOrder(t *testing.T) {
	r := NewRegistry()
	var order []string

	r.Register("first", nil, func(s *Sample) {
		order = append(order, "first")
		require.NoError(t, s.Extra.Set([]string{"tag"}, "first"))
	})
	r.Register("second", nil, func(s *Sample) {
		order = append(order, "second")
		require.NoError(t, s.Extra.Set([]string{"tag"}, "second"))
	})

	c := Collection{New("s1")}
	r.Apply(&c)

	assert.Equal(t, []string{"first", "second"}, order)
	tag, err := c[0].Extra.Get("tag")
	require.NoError(t, err)
	assert.Equal(t, "second", tag, "later mixins should be able to override earlier ones")
	assert.Equal(t, []string{"first", "second"}, r.Names())
}

func TestRegistrySamplesMixinRunsBeforeSampleMixin(t *testing.T) {
	r := NewRegistry()
	r.Register("appender", func(c *Collection) {
		*c = append(*c, New("added"))
	}, func(s *Sample) {
		require.NoError(t, s.Extra.Set([]string{"seen"}, true))
	})

	c := Collection{New("s1")}
	r.Apply(&c)

	require.Len(t, c, 2)
	for _, s := range c {
		seen, err := s.Extra.Get("seen")
		require.NoError(t, err)
		assert.Equal(t, true, seen, "sample mixin should also run over samples added by the samples mixin")
	}
}

func TestRegistryNilMixinsAreSkipped(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", nil, nil)

	c := Collection{New("s1")}
	assert.NotPanics(t, func() { r.Apply(&c) })
}
