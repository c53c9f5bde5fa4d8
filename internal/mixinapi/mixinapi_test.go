package mixinapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/sample"
)

func TestMixinRegistersIntoSharedRegistry(t *testing.T) {
	r := NewRegistry()
	r.Mixin("barcode", nil, func(s *sample.Sample) {
		require.NoError(t, s.Extra.Set([]string{"barcode"}, "n/a"))
	})

	shared := sample.NewRegistry()
	r.Into(shared)

	assert.Equal(t, []string{"barcode"}, shared.Names())

	c := sample.Collection{sample.New("s1")}
	shared.Apply(&c)

	v, err := c[0].Extra.Get("barcode")
	require.NoError(t, err)
	assert.Equal(t, "n/a", v)
}

func TestIntoPreservesCrossExtensionOrder(t *testing.T) {
	first := NewRegistry()
	first.Mixin("a", nil, nil)
	second := NewRegistry()
	second.Mixin("b", nil, nil)

	shared := sample.NewRegistry()
	first.Into(shared)
	second.Into(shared)

	assert.Equal(t, []string{"a", "b"}, shared.Names())
}
