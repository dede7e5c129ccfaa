package wavelet

import "golang.org/x/exp/constraints"

// Decompose builds the full wavelet pyramid of v[:n] by applying
// DecompositionStep to prefixes of length n, n/2, ..., 4.
// The coarsest smooth coefficients end up at v[0] and v[1].
func Decompose[T constraints.Float](v []T, n int, variant Variant) {
	var s scratch[T]
	decompose(v, n, variant, &s)
}

// Compose undoes Decompose by applying CompositionStep to prefixes of length
// 4, 8, ..., n.
func Compose[T constraints.Float](v []T, n int, variant Variant) {
	var s scratch[T]
	compose(v, n, variant, &s)
}

func decompose[T constraints.Float](v []T, n int, variant Variant, s *scratch[T]) {
	for size := n; size >= 4; size >>= 1 {
		decompositionStep(v, size, variant, s)
	}
}

func compose[T constraints.Float](v []T, n int, variant Variant, s *scratch[T]) {
	for size := 4; size <= n; size <<= 1 {
		compositionStep(v, size, variant, s)
	}
}
