// Package standard registers the standard 2D scheme: a full 1D decomposition
// along every row followed by a full decomposition along every column.
package standard

import (
	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/wavelet"
)

// ID is the archive identifier of the standard scheme.
const ID uint8 = 1

// Codec implements the codec.Codec interface for the standard decomposition
type Codec struct{}

// NewCodec creates a new standard scheme
func NewCodec() *Codec {
	return &Codec{}
}

// Forward decomposes rows then columns. NormStep interleaves the step
// normalization with the two passes.
func (c *Codec) Forward(g *grid.Grid, opts *codec.Options) error {
	wavelet.StandardDecompose(g, opts.Variant(), opts.Normalize == codec.NormStep, opts.TransformOptions()...)
	return nil
}

// Inverse composes columns then rows, undoing step normalization per pass.
func (c *Codec) Inverse(g *grid.Grid, opts *codec.Options) error {
	wavelet.StandardCompose(g, opts.Variant(), opts.Normalize == codec.NormStep, opts.TransformOptions()...)
	return nil
}

// Supports reports whether mode applies to the standard layout.
func (c *Codec) Supports(mode codec.NormMode) bool {
	return mode == codec.NormNone || mode == codec.NormStep
}

// ID returns the archive identifier
func (c *Codec) ID() uint8 {
	return ID
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "standard"
}

// Register registers this scheme with the global registry
func init() {
	codec.Register(NewCodec())
}
