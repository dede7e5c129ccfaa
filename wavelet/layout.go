package wavelet

import "github.com/cocosip/go-daubechies/grid"

// Levels returns the number of resolution levels of a length-n axis, log2(n).
// Normalization visits levels 1 .. Levels(n)-1.
func Levels(n int) int {
	return grid.Log2(n)
}

// LevelRange returns the half-open coefficient range [start, end) of a
// resolution level. Level 1 also owns the coarsest smooth coefficients, so it
// spans [0, 4); level l >= 2 spans [2^l, 2^(l+1)).
func LevelRange(level int) (start, end int) {
	if level <= 1 {
		return 0, 4
	}
	return 1 << level, 1 << (level + 1)
}

// LevelOf returns the resolution level that coefficient index i of a length-n
// axis belongs to. It is the inverse of LevelRange and returns 0 for indices
// outside [0, n).
func LevelOf(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	if i < 4 {
		return 1
	}
	return grid.Log2(i)
}

// SmoothBlock returns the extent of the coarsest smooth block left by a full
// decomposition of a length-n axis: 2 for n >= 4, n otherwise.
func SmoothBlock(n int) int {
	if n < 4 {
		return n
	}
	return 2
}
