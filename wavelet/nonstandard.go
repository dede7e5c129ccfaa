package wavelet

import "github.com/cocosip/go-daubechies/grid"

// pyramidStep is one outer iteration of the non-standard transform: the
// active extents and which axes get a single decomposition step.
type pyramidStep struct {
	width, height int
	rows, cols    bool
}

// pyramidSchedule lists the iterations NonStandardDecompose performs on a
// width x height grid, finest first.
func pyramidSchedule(width, height int) []pyramidStep {
	var steps []pyramidStep
	w, h := width, height
	for w >= 4 || h >= 4 {
		steps = append(steps, pyramidStep{width: w, height: h, rows: w >= 4, cols: h >= 4})
		if w >= 4 {
			w /= 2
		}
		if h >= 4 {
			h /= 2
		}
	}
	return steps
}

// NonStandardDecompose performs the pyramid transform: each iteration applies
// one DecompositionStep of extent w to each of the first h rows and one of
// extent h to each of the first w columns, then halves every extent that was
// at least 4. Row and column refinement interleave level by level, which
// yields the nested quadrant layout.
func NonStandardDecompose(g *grid.Grid, variant Variant, opts ...Option) {
	cfg := newConfig(opts)
	for _, st := range pyramidSchedule(g.Width(), g.Height()) {
		if st.rows {
			cfg.eachRow(g, st.height, func(row []float64, s *scratch[float64]) {
				decompositionStep(row, st.width, variant, s)
			})
		}
		if st.cols {
			cfg.eachColumn(g, st.width, st.height, func(col []float64, s *scratch[float64]) {
				decompositionStep(col, st.height, variant, s)
			})
		}
	}
}

// NonStandardCompose replays the decomposition schedule from the coarsest
// iteration outward, composing columns before rows at each extent pair. On
// square grids the extents start at 4 and double up to the grid size.
func NonStandardCompose(g *grid.Grid, variant Variant, opts ...Option) {
	cfg := newConfig(opts)
	steps := pyramidSchedule(g.Width(), g.Height())
	for i := len(steps) - 1; i >= 0; i-- {
		st := steps[i]
		if st.cols {
			cfg.eachColumn(g, st.width, st.height, func(col []float64, s *scratch[float64]) {
				compositionStep(col, st.height, variant, s)
			})
		}
		if st.rows {
			cfg.eachRow(g, st.height, func(row []float64, s *scratch[float64]) {
				compositionStep(row, st.width, variant, s)
			})
		}
	}
}
