// Package nonstandard registers the non-standard (pyramid) 2D scheme, which
// alternates one row step and one column step per level.
package nonstandard

import (
	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/wavelet"
)

// ID is the archive identifier of the non-standard scheme.
const ID uint8 = 2

// Codec implements the codec.Codec interface for the non-standard decomposition
type Codec struct{}

// NewCodec creates a new non-standard scheme
func NewCodec() *Codec {
	return &Codec{}
}

// Forward runs the pyramid decomposition, then the selected normalization.
func (c *Codec) Forward(g *grid.Grid, opts *codec.Options) error {
	wavelet.NonStandardDecompose(g, opts.Variant(), opts.TransformOptions()...)
	normalize(g, opts.Normalize, false)
	return nil
}

// Inverse removes the normalization, then composes the pyramid.
func (c *Codec) Inverse(g *grid.Grid, opts *codec.Options) error {
	normalize(g, opts.Normalize, true)
	wavelet.NonStandardCompose(g, opts.Variant(), opts.TransformOptions()...)
	return nil
}

func normalize(g *grid.Grid, mode codec.NormMode, invert bool) {
	switch mode {
	case codec.NormQuadrant:
		wavelet.NonStandardNormalize(g, invert)
	case codec.NormPyramid:
		wavelet.PyramidNormalize(g, invert)
	}
}

// Supports reports whether mode applies to the pyramid layout.
func (c *Codec) Supports(mode codec.NormMode) bool {
	return mode == codec.NormNone || mode == codec.NormQuadrant || mode == codec.NormPyramid
}

// ID returns the archive identifier
func (c *Codec) ID() uint8 {
	return ID
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "nonstandard"
}

// Register registers this scheme with the global registry
func init() {
	codec.Register(NewCodec())
}
