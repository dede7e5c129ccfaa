package wavelet

import "github.com/cocosip/go-daubechies/grid"

// StandardDecompose runs the full 1D decomposition along every row, then along
// every column. When stepNorm is set and the variant is unnormalized, each
// pass is followed by the matching StepNormalize.
func StandardDecompose(g *grid.Grid, variant Variant, stepNorm bool, opts ...Option) {
	cfg := newConfig(opts)
	width, height := g.Width(), g.Height()
	norm := stepNorm && !variant.Normalized

	cfg.eachRow(g, height, func(row []float64, s *scratch[float64]) {
		decompose(row, width, variant, s)
	})
	if norm {
		StepNormalize(g, true, false)
	}

	cfg.eachColumn(g, width, height, func(col []float64, s *scratch[float64]) {
		decompose(col, height, variant, s)
	})
	if norm {
		StepNormalize(g, false, false)
	}
}

// StandardCompose is the exact reverse of StandardDecompose: columns first,
// then rows, undoing the step normalization of each pass before composing it.
func StandardCompose(g *grid.Grid, variant Variant, stepNorm bool, opts ...Option) {
	cfg := newConfig(opts)
	width, height := g.Width(), g.Height()
	norm := stepNorm && !variant.Normalized

	if norm {
		StepNormalize(g, false, true)
	}
	cfg.eachColumn(g, width, height, func(col []float64, s *scratch[float64]) {
		compose(col, height, variant, s)
	})

	if norm {
		StepNormalize(g, true, true)
	}
	cfg.eachRow(g, height, func(row []float64, s *scratch[float64]) {
		compose(row, width, variant, s)
	})
}

// eachRow calls fn on the first count rows. Rows are views into g.
func (c config) eachRow(g *grid.Grid, count int, fn func(row []float64, s *scratch[float64])) {
	c.parallelFor(count, func(start, end int) {
		var s scratch[float64]
		for r := start; r < end; r++ {
			fn(g.Row(r), &s)
		}
	})
}

// eachColumn copies the first extent samples of each of the first count
// columns into a buffer, calls fn on it and writes the result back.
func (c config) eachColumn(g *grid.Grid, count, extent int, fn func(col []float64, s *scratch[float64])) {
	c.parallelFor(count, func(start, end int) {
		var s scratch[float64]
		col := make([]float64, extent)
		for x := start; x < end; x++ {
			g.Column(x, col)
			fn(col, &s)
			g.SetColumn(x, col)
		}
	})
}
