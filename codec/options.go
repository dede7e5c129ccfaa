package codec

import (
	"fmt"
	"log"
	"math"

	"github.com/cocosip/go-daubechies/wavelet"
)

// NormMode selects the normalization applied after the forward transform.
type NormMode int

const (
	// NormNone leaves the coefficients as the variant produced them.
	NormNone NormMode = iota
	// NormStep normalizes after each row and column pass of the standard scheme.
	NormStep
	// NormQuadrant applies the per-quadrant level-sum factors of the non-standard scheme.
	NormQuadrant
	// NormPyramid applies the per-band 2^(levels-i) factors of the non-standard scheme.
	NormPyramid
)

var normNames = [...]string{
	NormNone:     "none",
	NormStep:     "step",
	NormQuadrant: "quadrant",
	NormPyramid:  "pyramid",
}

// String returns the mode name.
func (m NormMode) String() string {
	if m < 0 || int(m) >= len(normNames) {
		return fmt.Sprintf("NormMode(%d)", int(m))
	}
	return normNames[m]
}

// ParseNormMode maps a mode name back to its NormMode.
func ParseNormMode(name string) (NormMode, error) {
	for i, n := range normNames {
		if n == name {
			return NormMode(i), nil
		}
	}
	return NormNone, fmt.Errorf("%w: normalization %q", ErrInvalidParameter, name)
}

// Options contains the parameters shared by every scheme.
type Options struct {
	// Normalized selects orthonormal filter taps. Unnormalized taps carry a
	// sqrt(2) gain per level that a NormMode other than NormNone removes.
	// Default: true.
	Normalized bool

	// Filter selects the D4 formulation. Default: wavelet.FilterOptimal.
	Filter wavelet.Filter

	// Normalize selects the post-transform normalization. Only valid with
	// Normalized=false. Default: NormNone.
	Normalize NormMode

	// Quality is the fraction of absolute coefficient energy the compressor
	// may discard (0 = lossless, 1 = everything). Default: 0.
	Quality float64

	// Workers bounds the goroutines used per transform pass. Default: 1.
	Workers int

	// Verbose enables per-stage logging.
	Verbose bool

	// Logger receives verbose output. Nil means log.Default().
	Logger *log.Logger
}

// NewOptions creates Options with default values.
func NewOptions() *Options {
	return &Options{
		Normalized: true,
		Filter:     wavelet.FilterOptimal,
		Normalize:  NormNone,
		Quality:    0,
		Workers:    1,
	}
}

// Validate checks the options and normalizes soft values in place.
func (o *Options) Validate() error {
	if math.IsNaN(o.Quality) || o.Quality < 0 || o.Quality > 1 {
		return ErrInvalidQuality
	}
	if o.Filter != wavelet.FilterOptimal && o.Filter != wavelet.FilterExplicit {
		return fmt.Errorf("%w: filter %d", ErrInvalidParameter, int(o.Filter))
	}
	if o.Normalize < NormNone || o.Normalize > NormPyramid {
		return fmt.Errorf("%w: normalization %d", ErrInvalidParameter, int(o.Normalize))
	}
	if o.Normalized && o.Normalize != NormNone {
		return fmt.Errorf("%w: %s normalization needs unnormalized taps", ErrUnsupportedNormalization, o.Normalize)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return nil
}

// Variant returns the filter variant the options select.
func (o *Options) Variant() wavelet.Variant {
	return wavelet.Variant{Normalized: o.Normalized, Filter: o.Filter}
}

// TransformOptions returns the wavelet driver options.
func (o *Options) TransformOptions() []wavelet.Option {
	return []wavelet.Option{wavelet.WithWorkers(o.Workers)}
}

// Logf logs through Logger when Verbose is set.
func (o *Options) Logf(format string, args ...any) {
	if !o.Verbose {
		return
	}
	l := o.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

// WithNormalized sets the filter normalization and returns the options for chaining.
func (o *Options) WithNormalized(normalized bool) *Options {
	o.Normalized = normalized
	return o
}

// WithFilter sets the filter formulation and returns the options for chaining.
func (o *Options) WithFilter(filter wavelet.Filter) *Options {
	o.Filter = filter
	return o
}

// WithNormalize sets the normalization mode and returns the options for chaining.
func (o *Options) WithNormalize(mode NormMode) *Options {
	o.Normalize = mode
	return o
}

// WithQuality sets the compression quality and returns the options for chaining.
func (o *Options) WithQuality(quality float64) *Options {
	o.Quality = quality
	return o
}

// WithWorkers sets the worker bound and returns the options for chaining.
func (o *Options) WithWorkers(workers int) *Options {
	o.Workers = workers
	return o
}

// WithVerbose enables verbose logging to l (nil for log.Default()) and
// returns the options for chaining.
func (o *Options) WithVerbose(l *log.Logger) *Options {
	o.Verbose = true
	o.Logger = l
	return o
}
