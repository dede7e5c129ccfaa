// Package grid provides the rectangular sample container the wavelet engine
// operates on.
package grid

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
)

var (
	// ErrNotPowerOfTwo is returned when a dimension is not a power of two
	ErrNotPowerOfTwo = errors.New("grid: dimension is not a power of two")

	// ErrTooSmall is returned when a dimension is below the transform base length
	ErrTooSmall = errors.New("grid: dimension smaller than 4")

	// ErrRagged is returned by FromRows when rows differ in length
	ErrRagged = errors.New("grid: rows have different lengths")
)

// MinDimension is the shortest segment the Daubechies-4 step transforms.
const MinDimension = 4

// Grid is a mutable row-major matrix of float64 samples.
// The element at (row, col) lives at Data()[row*Width()+col].
type Grid struct {
	width  int
	height int
	data   []float64
}

// New allocates a zeroed width x height grid.
func New(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic("grid: New called with negative dimensions")
	}
	return &Grid{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
}

// FromRows builds a grid from a slice of equally long rows. The rows are copied.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	width := len(rows[0])
	g := New(width, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrRagged, r, len(row), width)
		}
		copy(g.Row(r), row)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns width*height.
func (g *Grid) Len() int { return len(g.data) }

// At returns the sample at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.data[row*g.width+col]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.data[row*g.width+col] = v
}

// Row returns row r as a slice sharing the grid's storage.
func (g *Grid) Row(r int) []float64 {
	off := r * g.width
	return g.data[off : off+g.width : off+g.width]
}

// Column copies the first len(dst) samples of column c into dst and returns it.
// A nil dst allocates a full-height column.
func (g *Grid) Column(c int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, g.height)
	}
	for r := range dst {
		dst[r] = g.data[r*g.width+c]
	}
	return dst
}

// SetColumn writes src into the first len(src) rows of column c.
func (g *Grid) SetColumn(c int, src []float64) {
	for r, v := range src {
		g.data[r*g.width+c] = v
	}
}

// Data exposes the backing row-major slice.
func (g *Grid) Data() []float64 { return g.data }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, data: make([]float64, len(g.data))}
	copy(c.data, g.data)
	return c
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// MinMax returns the smallest and largest sample. An empty grid yields (0, 0).
func (g *Grid) MinMax() (lo, hi float64) {
	if len(g.data) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// MaxAbsDiff returns the largest absolute element-wise difference between g
// and o. Grids of different shape return +Inf.
func (g *Grid) MaxAbsDiff(o *Grid) float64 {
	if g.width != o.width || g.height != o.height {
		return math.Inf(1)
	}
	maxErr := 0.0
	for i, v := range g.data {
		maxErr = max(maxErr, math.Abs(v-o.data[i]))
	}
	return maxErr
}

// Validate checks that both dimensions are powers of two no smaller than
// MinDimension. The engine itself never calls this; callers that need a
// guaranteed round trip should.
func (g *Grid) Validate() error {
	for _, d := range [...]struct {
		name string
		n    int
	}{{"width", g.width}, {"height", g.height}} {
		if !IsPowerOfTwo(d.n) {
			return fmt.Errorf("%w: %s=%d", ErrNotPowerOfTwo, d.name, d.n)
		}
		if d.n < MinDimension {
			return fmt.Errorf("%w: %s=%d", ErrTooSmall, d.name, d.n)
		}
	}
	return nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns floor(log2(n)) for n > 0 and 0 otherwise.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Fprint writes the grid one row per line with the given number of decimals.
func Fprint(w io.Writer, g *Grid, precision int) error {
	for r := 0; r < g.height; r++ {
		for c, v := range g.Row(r) {
			sep := ", "
			if c == g.width-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%.*f%s", precision, v, sep); err != nil {
				return err
			}
		}
	}
	return nil
}
