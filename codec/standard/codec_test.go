package standard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/wavelet"
)

func ramp(width, height int) *grid.Grid {
	g := grid.New(width, height)
	for i := range g.Data() {
		g.Data()[i] = float64(i%13) - 4
	}
	return g
}

func TestSupports(t *testing.T) {
	c := NewCodec()
	assert.True(t, c.Supports(codec.NormNone))
	assert.True(t, c.Supports(codec.NormStep))
	assert.False(t, c.Supports(codec.NormQuadrant))
	assert.False(t, c.Supports(codec.NormPyramid))
}

func TestForwardMatchesDriver(t *testing.T) {
	opts := codec.NewOptions().WithNormalized(false).WithNormalize(codec.NormStep)
	require.NoError(t, opts.Validate())

	got := ramp(16, 8)
	want := got.Clone()
	require.NoError(t, NewCodec().Forward(got, opts))
	wavelet.StandardDecompose(want, opts.Variant(), true)

	assert.Equal(t, want.Data(), got.Data())
}

// Step normalization of unnormalized taps reproduces the orthonormal layout.
func TestStepNormMatchesNormalized(t *testing.T) {
	step := ramp(32, 16)
	normalized := step.Clone()

	require.NoError(t, NewCodec().Forward(step, codec.NewOptions().WithNormalized(false).WithNormalize(codec.NormStep)))
	require.NoError(t, NewCodec().Forward(normalized, codec.NewOptions()))

	assert.Less(t, step.MaxAbsDiff(normalized), 1e-9)
}

func TestRegistered(t *testing.T) {
	c, err := codec.GetByID(ID)
	require.NoError(t, err)
	assert.Equal(t, "standard", c.Name())
}
