package codec

import (
	"fmt"
	"time"

	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/threshold"
)

// Report describes one pass through the pipeline.
type Report struct {
	Scheme    string
	Width     int
	Height    int
	Options   Options
	Threshold threshold.Result
	Forward   time.Duration
	Compress  time.Duration
	Inverse   time.Duration
}

// prepare validates the grid and options against the scheme. A nil opts is
// replaced by NewOptions().
func prepare(c Codec, g *grid.Grid, opts *Options) (*Options, error) {
	if c == nil {
		return nil, ErrCodecNotFound
	}
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !c.Supports(opts.Normalize) {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedNormalization, c.Name(), opts.Normalize)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return opts, nil
}

// Encode runs the forward transform of c on g and thresholds the resulting
// coefficients with opts.Quality. g holds the coefficients on return.
func Encode(c Codec, g *grid.Grid, opts *Options) (*Report, error) {
	opts, err := prepare(c, g, opts)
	if err != nil {
		return nil, err
	}
	rep := &Report{Scheme: c.Name(), Width: g.Width(), Height: g.Height(), Options: *opts}

	start := time.Now()
	if err := c.Forward(g, opts); err != nil {
		return nil, fmt.Errorf("%s forward: %w", c.Name(), err)
	}
	rep.Forward = time.Since(start)
	opts.Logf("%s: forward %dx%d (%s, norm=%s) in %v", c.Name(), g.Width(), g.Height(), variantName(opts), opts.Normalize, rep.Forward)

	start = time.Now()
	rep.Threshold = threshold.Compress(g, opts.Quality)
	rep.Compress = time.Since(start)
	opts.Logf("%s: quality %.4f zeroed %d/%d coefficients (%.2f%% energy kept)",
		c.Name(), opts.Quality, rep.Threshold.Zeroed, rep.Threshold.Count, 100*rep.Threshold.RetainedEnergy())

	return rep, nil
}

// Decode runs the inverse transform of c on the coefficients in g.
func Decode(c Codec, g *grid.Grid, opts *Options) error {
	opts, err := prepare(c, g, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := c.Inverse(g, opts); err != nil {
		return fmt.Errorf("%s inverse: %w", c.Name(), err)
	}
	opts.Logf("%s: inverse %dx%d in %v", c.Name(), g.Width(), g.Height(), time.Since(start))
	return nil
}

// Roundtrip encodes and decodes g in place. With quality 0 the result equals
// the input up to floating-point error.
func Roundtrip(c Codec, g *grid.Grid, opts *Options) (*Report, error) {
	rep, err := Encode(c, g, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := Decode(c, g, &rep.Options); err != nil {
		return nil, err
	}
	rep.Inverse = time.Since(start)
	return rep, nil
}

func variantName(o *Options) string {
	if o.Normalized {
		return "normalized/" + o.Filter.String()
	}
	return "unnormalized/" + o.Filter.String()
}
