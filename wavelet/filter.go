// Package wavelet implements the periodic Daubechies-4 discrete wavelet
// transform over 1D signals and 2D grids.
package wavelet

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Filter selects one of the two numerically equivalent D4 formulations.
type Filter int

const (
	// FilterOptimal evaluates the closed form built around sqrt(3), which
	// needs fewer multiplications per butterfly.
	FilterOptimal Filter = iota
	// FilterExplicit convolves with the four scaling taps h0..h3 and the
	// quadrature-mirror wavelet taps g0..g3.
	FilterExplicit
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterOptimal:
		return "optimal"
	case FilterExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// ParseFilter maps a filter name back to its Filter.
func ParseFilter(name string) (Filter, bool) {
	switch name {
	case "optimal":
		return FilterOptimal, true
	case "explicit":
		return FilterExplicit, true
	default:
		return 0, false
	}
}

// Variant is the pair of choices a decomposition and its composition must agree on.
//
// Normalized=true uses orthonormal taps (denominator 4*sqrt(2)) in both
// directions. Normalized=false analyses with denominator 4, which scales every
// output by sqrt(2), and synthesises with denominator 8 so the round trip is
// still exact. The per-level gain left by the unnormalized analysis is what
// Normalize, StepNormalize and PyramidNormalize remove.
type Variant struct {
	Normalized bool
	Filter     Filter
}

// Normalized4 is the default variant: orthonormal closed-form butterflies.
var Normalized4 = Variant{Normalized: true, Filter: FilterOptimal}

// Variants lists every supported combination, in a stable order.
func Variants() []Variant {
	return []Variant{
		{Normalized: true, Filter: FilterOptimal},
		{Normalized: true, Filter: FilterExplicit},
		{Normalized: false, Filter: FilterOptimal},
		{Normalized: false, Filter: FilterExplicit},
	}
}

func (v Variant) analysisDenom() float64 {
	if v.Normalized {
		return 4 * math.Sqrt2
	}
	return 4
}

func (v Variant) synthesisDenom() float64 {
	if v.Normalized {
		return 4 * math.Sqrt2
	}
	return 8
}

// taps holds a scaling filter h and its quadrature mirror g.
type taps[T constraints.Float] struct {
	h0, h1, h2, h3 T
	g0, g1, g2, g3 T
}

func newTaps[T constraints.Float](denom float64) taps[T] {
	sqrt3 := math.Sqrt(3)
	h0 := T((1 + sqrt3) / denom)
	h1 := T((3 + sqrt3) / denom)
	h2 := T((3 - sqrt3) / denom)
	h3 := T((1 - sqrt3) / denom)
	return taps[T]{
		h0: h0, h1: h1, h2: h2, h3: h3,
		g0: h3, g1: -h2, g2: h1, g3: -h0,
	}
}

// inverse relabels the analysis taps into the synthesis pair (Ih, Ig) packed
// back into h and g.
func (t taps[T]) inverse() taps[T] {
	return taps[T]{
		h0: t.h2, h1: t.g2, h2: t.h0, h3: t.g0,
		g0: t.h3, g1: t.g3, g2: t.h1, g3: t.g1,
	}
}

// scratch is a growable buffer owned by a single transform call.
type scratch[T constraints.Float] struct {
	buf []T
}

func (s *scratch[T]) ensure(n int) []T {
	if cap(s.buf) < n {
		s.buf = make([]T, n)
	}
	return s.buf[:n]
}

// DecompositionStep performs one analysis level on v[:n], treating the segment
// as periodic. Afterwards v[:n/2] holds smooth and v[n/2:n] detail
// coefficients. Segments shorter than 4 are left untouched.
func DecompositionStep[T constraints.Float](v []T, n int, variant Variant) {
	var s scratch[T]
	decompositionStep(v, n, variant, &s)
}

// CompositionStep is the exact inverse of DecompositionStep for the same n
// and variant.
func CompositionStep[T constraints.Float](v []T, n int, variant Variant) {
	var s scratch[T]
	compositionStep(v, n, variant, &s)
}

func decompositionStep[T constraints.Float](v []T, n int, variant Variant, s *scratch[T]) {
	if n < 4 {
		return
	}
	half := n >> 1
	out := s.ensure(n)

	switch variant.Filter {
	case FilterExplicit:
		k := newTaps[T](variant.analysisDenom())
		for i := 0; i < half; i++ {
			j := 2 * i
			a, b, c, d := v[j], v[j+1], v[(j+2)%n], v[(j+3)%n]
			out[i] = a*k.h0 + b*k.h1 + c*k.h2 + d*k.h3
			out[i+half] = a*k.g0 + b*k.g1 + c*k.g2 + d*k.g3
		}
	default:
		three := T(3)
		sqrt3 := T(math.Sqrt(3))
		denom := T(variant.analysisDenom())
		for i := 0; i < half; i++ {
			j := 2 * i
			a, b, c, d := v[j], v[j+1], v[(j+2)%n], v[(j+3)%n]
			t1 := a - c
			t2 := b - d
			out[i] = (a + d + three*(b+c) + sqrt3*(t1+t2)) / denom
			out[i+half] = (a - d + three*(c-b) + sqrt3*(t2-t1)) / denom
		}
	}

	copy(v[:n], out)
}

func compositionStep[T constraints.Float](v []T, n int, variant Variant, s *scratch[T]) {
	if n < 4 {
		return
	}
	half := n >> 1
	out := s.ensure(n)

	switch variant.Filter {
	case FilterExplicit:
		k := newTaps[T](variant.synthesisDenom()).inverse()
		for i := 0; i < half; i++ {
			p := (i + half - 1) % half
			a, b, c, d := v[p], v[half+p], v[i], v[half+i]
			out[2*i] = a*k.h0 + b*k.h1 + c*k.h2 + d*k.h3
			out[2*i+1] = a*k.g0 + b*k.g1 + c*k.g2 + d*k.g3
		}
	default:
		three := T(3)
		sqrt3 := T(math.Sqrt(3))
		denom := T(variant.synthesisDenom())
		for i := 0; i < half; i++ {
			// the first pair wraps around to the last smooth/detail slot
			p := (i + half - 1) % half
			a, b, c, d := v[p], v[half+p], v[i], v[half+i]
			t1 := c - a
			t2 := b - d
			out[2*i] = (c + d + three*(a+b) + sqrt3*(t1+t2)) / denom
			out[2*i+1] = (a - b + three*(c-d) + sqrt3*(t1-t2)) / denom
		}
	}

	copy(v[:n], out)
}
