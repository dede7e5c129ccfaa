package wavelet

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestDecomposeComposeRoundTrip covers every variant and power-of-two length.
func TestDecomposeComposeRoundTrip(t *testing.T) {
	for _, variant := range Variants() {
		for _, n := range testSizes {
			t.Run(fmt.Sprintf("%s/n=%d", variantName(variant), n), func(t *testing.T) {
				original := randomSignal(n, uint64(n)*31)
				data := append([]float64(nil), original...)

				Decompose(data, n, variant)
				Compose(data, n, variant)

				if maxErr := maxAbsError(original, data); maxErr > 1e-9 {
					t.Errorf("reconstruction error too large: %e", maxErr)
				}
			})
		}
	}
}

func TestRampRoundTrip(t *testing.T) {
	original := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	data := append([]float64(nil), original...)

	Decompose(data, 8, Normalized4)
	Compose(data, 8, Normalized4)

	for i := range original {
		if err := math.Abs(data[i] - original[i]); err > 1e-6 {
			t.Errorf("position %d: got %v, want %v (error %e)", i, data[i], original[i], err)
		}
	}
}

func TestDecomposeConstantSignal(t *testing.T) {
	for _, variant := range Variants() {
		t.Run(variantName(variant), func(t *testing.T) {
			data := make([]float64, 32)
			for i := range data {
				data[i] = 10
			}

			Decompose(data, len(data), variant)

			if data[0] == 0 || math.Abs(data[0]-data[1]) > 1e-9 {
				t.Errorf("smooth block = %v, %v; want two equal non-zero values", data[0], data[1])
			}
			for i := SmoothBlock(len(data)); i < len(data); i++ {
				if math.Abs(data[i]) > 1e-9 {
					t.Errorf("detail %d = %e, want 0", i, data[i])
				}
			}
		})
	}
}

func TestDecomposeMatchesManualSteps(t *testing.T) {
	original := randomSignal(64, 9)
	data := append([]float64(nil), original...)
	manual := append([]float64(nil), original...)

	Decompose(data, 64, Normalized4)
	for _, size := range []int{64, 32, 16, 8, 4} {
		DecompositionStep(manual, size, Normalized4)
	}

	if !cmp.Equal(manual, data) {
		t.Errorf("Decompose differs from chained steps:\n%s", cmp.Diff(manual, data))
	}
}

// Dividing out the per-level gain of the unnormalized pyramid gives the
// normalized pyramid.
func TestUnnormalizedDecomposeWithNormalize(t *testing.T) {
	for _, filter := range []Filter{FilterOptimal, FilterExplicit} {
		for _, n := range testSizes {
			t.Run(fmt.Sprintf("%s/n=%d", filter, n), func(t *testing.T) {
				signal := randomSignal(n, 5)

				normalized := append([]float64(nil), signal...)
				Decompose(normalized, n, Variant{Normalized: true, Filter: filter})

				rescaled := append([]float64(nil), signal...)
				Decompose(rescaled, n, Variant{Normalized: false, Filter: filter})
				Normalize(rescaled, n, false)

				if diff := cmp.Diff(normalized, rescaled, cmpopts.EquateApprox(1e-12, 1e-9)); diff != "" {
					t.Errorf("normalized pyramid mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestNormalizedDecomposePreservesEnergy(t *testing.T) {
	data := randomSignal(512, 77)
	before := sumSquares(data)
	Decompose(data, len(data), Variant{Normalized: true, Filter: FilterExplicit})
	if after := sumSquares(data); math.Abs(before-after) > 1e-9*before {
		t.Errorf("energy %v became %v", before, after)
	}
}
