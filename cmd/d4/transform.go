package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/raster"
	"github.com/cocosip/go-daubechies/wavelet"
)

// transformFlags are shared by the commands that run the forward transform.
type transformFlags struct {
	scheme       string
	unnormalized bool
	filter       string
	norm         string
	quality      float64
	fit          bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.scheme, "scheme", "s", "nonstandard", "2D scheme (see 'd4 schemes')")
	fs.BoolVar(&f.unnormalized, "unnormalized", false, "use unnormalized filter taps")
	fs.StringVar(&f.filter, "filter", wavelet.FilterOptimal.String(), "filter formulation: optimal or explicit")
	fs.StringVar(&f.norm, "norm", codec.NormNone.String(), "normalization: none, step, quadrant or pyramid")
	fs.Float64VarP(&f.quality, "quality", "q", 0, "fraction of coefficient energy to discard (0-1)")
	fs.BoolVar(&f.fit, "fit", false, "resample input to power-of-two sides")
}

// options resolves the flags into a scheme and validated options.
func (f *transformFlags) options(root *rootFlags, logOut io.Writer) (codec.Codec, *codec.Options, error) {
	c, err := codec.Get(f.scheme)
	if err != nil {
		return nil, nil, fmt.Errorf("scheme %q: %w", f.scheme, err)
	}
	filter, ok := wavelet.ParseFilter(f.filter)
	if !ok {
		return nil, nil, fmt.Errorf("%w: filter %q", codec.ErrInvalidParameter, f.filter)
	}
	mode, err := codec.ParseNormMode(f.norm)
	if err != nil {
		return nil, nil, err
	}

	opts := codec.NewOptions().
		WithNormalized(!f.unnormalized).
		WithFilter(filter).
		WithNormalize(mode).
		WithQuality(f.quality).
		WithWorkers(root.workers)
	if root.verbose {
		opts.WithVerbose(log.New(logOut, "", log.Lmicroseconds))
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	return c, opts, nil
}

// load reads an input raster, resampling it when fit is set.
func (f *transformFlags) load(path string) (*grid.Grid, error) {
	g, err := raster.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f.fit {
		g = raster.FitPowerOfTwo(g)
	}
	return g, nil
}

func printReport(w io.Writer, rep *codec.Report) {
	fmt.Fprintf(w, "scheme:   %s\n", rep.Scheme)
	fmt.Fprintf(w, "size:     %dx%d\n", rep.Width, rep.Height)
	fmt.Fprintf(w, "variant:  normalized=%v filter=%s norm=%s\n", rep.Options.Normalized, rep.Options.Filter, rep.Options.Normalize)
	fmt.Fprintf(w, "quality:  %g\n", rep.Options.Quality)
	fmt.Fprintf(w, "zeroed:   %d/%d (%.2f%%)\n", rep.Threshold.Zeroed, rep.Threshold.Count, 100*rep.Threshold.Sparsity())
	fmt.Fprintf(w, "energy:   %.2f%% kept\n", 100*rep.Threshold.RetainedEnergy())
}
