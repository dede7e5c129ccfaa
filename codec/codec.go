package codec

import "github.com/cocosip/go-daubechies/grid"

// Codec is the interface every 2D transform scheme implements
type Codec interface {
	// Forward transforms g in place into wavelet coefficients, applying the
	// normalization selected by opts
	Forward(g *grid.Grid, opts *Options) error

	// Inverse undoes Forward in place
	Inverse(g *grid.Grid, opts *Options) error

	// ID returns the identifier stored in coefficient archives
	ID() uint8

	// Name returns a human-readable name
	Name() string

	// Supports reports whether the scheme accepts the normalization mode
	Supports(mode NormMode) bool
}
