package wavelet

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cocosip/go-daubechies/grid"
)

func randomGrid(width, height int, seed uint64) *grid.Grid {
	g := grid.New(width, height)
	copy(g.Data(), randomSignal(width*height, seed))
	return g
}

func TestNormalizeRoundTrip(t *testing.T) {
	for _, n := range testSizes {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			original := randomSignal(n, 11)
			data := append([]float64(nil), original...)

			Normalize(data, n, false)
			Normalize(data, n, true)

			if diff := cmp.Diff(original, data, cmpopts.EquateApprox(1e-15, 0)); diff != "" {
				t.Errorf("normalization round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeFactors(t *testing.T) {
	// n=16 has 4 levels: [0,4) / 2^(3/2), [4,8) / 2, [8,16) / sqrt(2).
	data := make([]float64, 16)
	for i := range data {
		data[i] = 1
	}
	Normalize(data, 16, false)

	want := []float64{
		1 / (2 * math.Sqrt2), 1 / (2 * math.Sqrt2), 1 / (2 * math.Sqrt2), 1 / (2 * math.Sqrt2),
		0.5, 0.5, 0.5, 0.5,
		1 / math.Sqrt2, 1 / math.Sqrt2, 1 / math.Sqrt2, 1 / math.Sqrt2,
		1 / math.Sqrt2, 1 / math.Sqrt2, 1 / math.Sqrt2, 1 / math.Sqrt2,
	}
	if diff := cmp.Diff(want, data, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("Normalize factors (-want +got):\n%s", diff)
	}
}

func TestGridNormalizationRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		forward func(*grid.Grid)
		inverse func(*grid.Grid)
	}{
		{
			name:    "step horizontal",
			forward: func(g *grid.Grid) { StepNormalize(g, true, false) },
			inverse: func(g *grid.Grid) { StepNormalize(g, true, true) },
		},
		{
			name:    "step vertical",
			forward: func(g *grid.Grid) { StepNormalize(g, false, false) },
			inverse: func(g *grid.Grid) { StepNormalize(g, false, true) },
		},
		{
			name:    "non-standard",
			forward: func(g *grid.Grid) { NonStandardNormalize(g, false) },
			inverse: func(g *grid.Grid) { NonStandardNormalize(g, true) },
		},
		{
			name:    "pyramid",
			forward: func(g *grid.Grid) { PyramidNormalize(g, false) },
			inverse: func(g *grid.Grid) { PyramidNormalize(g, true) },
		},
	}

	shapes := [][2]int{{4, 4}, {8, 8}, {32, 32}, {16, 64}, {64, 8}}
	for _, tt := range tests {
		for _, shape := range shapes {
			t.Run(fmt.Sprintf("%s/%dx%d", tt.name, shape[0], shape[1]), func(t *testing.T) {
				g := randomGrid(shape[0], shape[1], 3)
				original := g.Clone()

				tt.forward(g)
				tt.inverse(g)

				if diff := cmp.Diff(original.Data(), g.Data(), cmpopts.EquateApprox(1e-14, 0)); diff != "" {
					t.Errorf("round trip (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestStepNormalizeMatchesNormalize(t *testing.T) {
	g := randomGrid(32, 16, 8)
	horizontal := g.Clone()
	vertical := g.Clone()

	StepNormalize(horizontal, true, false)
	StepNormalize(vertical, false, false)

	for r := 0; r < g.Height(); r++ {
		row := append([]float64(nil), g.Row(r)...)
		Normalize(row, g.Width(), false)
		if !cmp.Equal(row, horizontal.Row(r)) {
			t.Fatalf("row %d differs from 1D normalization", r)
		}
	}
	for c := 0; c < g.Width(); c++ {
		col := g.Column(c, nil)
		Normalize(col, g.Height(), false)
		if !cmp.Equal(col, vertical.Column(c, nil)) {
			t.Fatalf("column %d differs from 1D normalization", c)
		}
	}
}

func TestNonStandardNormalizeQuadrants(t *testing.T) {
	g := grid.New(8, 8)
	g.Fill(1)
	NonStandardNormalize(g, false)

	// Level sums: (1,1) -> 4, (1,2) and (2,1) -> 3, (2,2) -> 2.
	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 1.0 / 4},
		{3, 3, 1.0 / 4},
		{0, 5, 1 / (2 * math.Sqrt2)},
		{5, 0, 1 / (2 * math.Sqrt2)},
		{6, 7, 1.0 / 2},
		{4, 4, 1.0 / 2},
	}
	for _, tt := range tests {
		if got := g.At(tt.row, tt.col); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("At(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestQuadrantFactor(t *testing.T) {
	tests := []struct {
		levelSum int
		want     float64
	}{
		{0, 0},
		{1, math.Sqrt2},
		{2, 2},
		{3, 2 * math.Sqrt2},
		{4, 4},
		{5, 4 * math.Sqrt2},
		{6, 6},
	}
	for _, tt := range tests {
		if got := quadrantFactor(tt.levelSum); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("quadrantFactor(%d) = %v, want %v", tt.levelSum, got, tt.want)
		}
	}
}

func TestPyramidNormalizeBands(t *testing.T) {
	g := grid.New(16, 16)
	g.Fill(1)
	PyramidNormalize(g, false)

	// 4 levels: band 1 / 8, band 2 / 4, band 3 / 2.
	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 1.0 / 8},
		{3, 3, 1.0 / 8},
		{0, 4, 1.0 / 4},
		{7, 0, 1.0 / 4},
		{5, 5, 1.0 / 4},
		{0, 15, 1.0 / 2},
		{15, 0, 1.0 / 2},
		{12, 12, 1.0 / 2},
	}
	for _, tt := range tests {
		if got := g.At(tt.row, tt.col); got != tt.want {
			t.Errorf("At(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestNormalizationSkipsTinyGrids(t *testing.T) {
	g := grid.New(2, 2)
	g.Fill(3)
	StepNormalize(g, true, false)
	StepNormalize(g, false, false)
	NonStandardNormalize(g, false)
	PyramidNormalize(g, false)
	for i, v := range g.Data() {
		if v != 3 {
			t.Errorf("sample %d = %v, want 3", i, v)
		}
	}
}
