package wavelet

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/cocosip/go-daubechies/grid"
)

// Normalize rescales each resolution level of a transformed v[:n] by
// 2^((levels-level)/2): division when invert is false, multiplication when it
// is true. Applied after an unnormalized Decompose it yields the normalized
// coefficients; it must not be combined with a normalized variant.
func Normalize[T constraints.Float](v []T, n int, invert bool) {
	levels := Levels(n)
	for level := 1; level < levels; level++ {
		start, end := LevelRange(level)
		scaleSlice(v[start:end], T(levelFactor(levels, level)), invert)
	}
}

// StepNormalize applies Normalize to every row (horizontal) or every column
// (vertical) of g. It mirrors the per-axis gain of an unnormalized
// StandardDecompose pass.
func StepNormalize(g *grid.Grid, horizontal, invert bool) {
	if horizontal {
		for r := 0; r < g.Height(); r++ {
			Normalize(g.Row(r), g.Width(), invert)
		}
		return
	}

	// Scaling a band of every column is scaling the matching band of rows.
	levels := Levels(g.Height())
	for level := 1; level < levels; level++ {
		start, end := LevelRange(level)
		factor := levelFactor(levels, level)
		for r := start; r < end; r++ {
			scaleSlice(g.Row(r), factor, invert)
		}
	}
}

// NonStandardNormalize assigns one factor per (row level, column level)
// quadrant. With levelSum = (rowLevels-levelRow) + (colLevels-levelCol), the
// factor is levelSum when even, sqrt(2) when odd and <= 2, and
// (levelSum-1)*sqrt(2) otherwise. Quadrants whose factor is zero are left
// unscaled.
func NonStandardNormalize(g *grid.Grid, invert bool) {
	rowLevels := Levels(g.Height())
	colLevels := Levels(g.Width())

	for levelRow := 1; levelRow < rowLevels; levelRow++ {
		rowStart, rowEnd := LevelRange(levelRow)
		for levelCol := 1; levelCol < colLevels; levelCol++ {
			colStart, colEnd := LevelRange(levelCol)
			factor := quadrantFactor((rowLevels - levelRow) + (colLevels - levelCol))
			if factor == 0 {
				continue
			}
			for r := rowStart; r < rowEnd; r++ {
				scaleSlice(g.Row(r)[colStart:colEnd], factor, invert)
			}
		}
	}
}

// PyramidNormalize divides band i of a non-standard decomposition by
// 2^(levels-i), where band 1 is the [0,4)x[0,4) block and band i >= 2 is the
// L-shaped region [0,2^(i+1))^2 minus [0,2^i)^2. On square grids this turns an
// unnormalized NonStandardDecompose into the normalized one. Levels are taken
// from the shorter axis.
func PyramidNormalize(g *grid.Grid, invert bool) {
	levels := Levels(min(g.Width(), g.Height()))

	for band := 1; band < levels; band++ {
		factor := math.Ldexp(1, levels-band)
		start, end := LevelRange(band)
		if band == 1 {
			for r := 0; r < end; r++ {
				scaleSlice(g.Row(r)[:end], factor, invert)
			}
			continue
		}
		for r := 0; r < start; r++ {
			scaleSlice(g.Row(r)[start:end], factor, invert)
		}
		for r := start; r < end; r++ {
			scaleSlice(g.Row(r)[:end], factor, invert)
		}
	}
}

func levelFactor(levels, level int) float64 {
	return math.Pow(2, float64(levels-level)/2)
}

func quadrantFactor(levelSum int) float64 {
	if levelSum&1 == 1 {
		if levelSum > 2 {
			return float64(levelSum-1) * math.Sqrt2
		}
		return math.Sqrt2
	}
	return float64(levelSum)
}

func scaleSlice[T constraints.Float](s []T, factor T, invert bool) {
	if invert {
		for i := range s {
			s[i] *= factor
		}
		return
	}
	for i := range s {
		s[i] /= factor
	}
}
