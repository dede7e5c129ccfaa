// Package threshold implements lossy compression of wavelet coefficients by
// zeroing the smallest magnitudes.
package threshold

import (
	"cmp"
	"math"
	"slices"

	"github.com/cocosip/go-daubechies/grid"
)

// Result summarises one thresholding pass.
type Result struct {
	// Count is the number of coefficients inspected.
	Count int
	// Zeroed is the number of coefficients set to zero by the pass.
	Zeroed int
	// Total is the absolute energy sum(|c|) before the pass.
	Total float64
	// Budget is the energy the pass was allowed to remove.
	Budget float64
	// Removed is the absolute energy actually removed, Removed <= Budget.
	Removed float64
	// Cutoff is the largest magnitude that was zeroed.
	Cutoff float64
}

// Sparsity returns the fraction of inspected coefficients that were zeroed.
func (r Result) Sparsity() float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.Zeroed) / float64(r.Count)
}

// RetainedEnergy returns the fraction of absolute energy left after the pass.
func (r Result) RetainedEnergy() float64 {
	if r.Total == 0 {
		return 1
	}
	return (r.Total - r.Removed) / r.Total
}

// Energy returns sum(|c|) over the grid.
func Energy(g *grid.Grid) float64 {
	e := 0.0
	for _, v := range g.Data() {
		e += math.Abs(v)
	}
	return e
}

// Zeros counts the samples that are exactly zero.
func Zeros(g *grid.Grid) int {
	n := 0
	for _, v := range g.Data() {
		if v == 0 {
			n++
		}
	}
	return n
}

// Compress zeroes the longest run of smallest-magnitude coefficients whose
// summed magnitude stays within quality*Energy(g). Coefficients are visited in
// ascending |c| order, ties broken by position, so the zeroed set for a larger
// quality always contains the set for a smaller one. quality <= 0 leaves the
// grid untouched and quality >= 1 zeroes every coefficient.
func Compress(g *grid.Grid, quality float64) Result {
	data := g.Data()
	res := Result{Count: len(data), Total: Energy(g)}

	if !(quality > 0) {
		return res
	}
	if quality >= 1 {
		res.Budget = res.Total
		for i, v := range data {
			res.Cutoff = max(res.Cutoff, math.Abs(v))
			data[i] = 0
		}
		res.Zeroed = len(data)
		res.Removed = res.Total
		return res
	}

	res.Budget = quality * res.Total
	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(math.Abs(data[a]), math.Abs(data[b]))
	})

	for _, idx := range order {
		m := math.Abs(data[idx])
		if res.Removed+m > res.Budget {
			break
		}
		res.Removed += m
		res.Cutoff = m
		res.Zeroed++
		data[idx] = 0
	}
	return res
}

// Hard zeroes every coefficient whose magnitude is below t.
func Hard(g *grid.Grid, t float64) Result {
	data := g.Data()
	res := Result{Count: len(data), Total: Energy(g)}
	for i, v := range data {
		m := math.Abs(v)
		if m >= t {
			continue
		}
		res.Removed += m
		res.Cutoff = max(res.Cutoff, m)
		res.Zeroed++
		data[i] = 0
	}
	res.Budget = res.Removed
	return res
}
