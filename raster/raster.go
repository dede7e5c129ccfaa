// Package raster moves grids in and out of image files, choosing the format
// from the file extension.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif" // Registers GIF decoding

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/cocosip/go-daubechies/dicomgrid"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/pnm"
)

// ErrUnknownFormat is returned for extensions WriteFile cannot encode.
var ErrUnknownFormat = errors.New("raster: unknown image format")

// undershoot is how far below zero an 8-bit grid may ring before Display
// windows it.
const undershoot = 64

// ReadFile decodes path into a grid of grey levels. PNM and DICOM files keep
// their native sample range; other formats are reduced to 8-bit luma.
func ReadFile(path string) (*grid.Grid, error) {
	switch ext(path) {
	case ".dcm", ".dicom":
		f, err := dicomgrid.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return f.Grid, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	switch ext(path) {
	case ".pgm", ".ppm", ".pnm":
		img, err := pnm.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img.Grid, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// WriteFile encodes g to path. PNM files keep the sample range of g (see
// pnm.MaxValFor); the 8-bit formats go through Display.
func WriteFile(path string, g *grid.Grid) error {
	var encode func(f *os.File) error
	switch ext(path) {
	case ".pgm":
		encode = func(f *os.File) error { return pnm.Encode(f, g, pnm.PlainGray, pnm.MaxValFor(g)) }
	case ".ppm", ".pnm":
		encode = func(f *os.File) error { return pnm.Encode(f, g, pnm.PlainRGB, pnm.MaxValFor(g)) }
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, Display(g)) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, Display(g), &jpeg.Options{Quality: 95}) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, Display(g), &tiff.Options{Compression: tiff.Deflate}) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, Display(g)) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// FromImage converts img to luma (0.299 R + 0.587 G + 0.114 B) in [0, 255].
func FromImage(img image.Image) *grid.Grid {
	b := img.Bounds()
	g := grid.New(b.Dx(), b.Dy())
	if gray, ok := img.(*image.Gray); ok {
		for y := range b.Dy() {
			row := g.Row(y)
			for x, p := range gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()] {
				row[x] = float64(p)
			}
		}
		return g
	}
	for y := range b.Dy() {
		row := g.Row(y)
		for x := range b.Dx() {
			r, gr, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(bl>>8)
		}
	}
	return g
}

// ToGray renders g as an 8-bit image, rounding and clamping to [0, 255].
func ToGray(g *grid.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for y := range g.Height() {
		for x, v := range g.Row(y) {
			img.SetGray(x, y, color.Gray{Y: clamp8(v)})
		}
	}
	return img
}

// Display renders g as an 8-bit image. Grids whose samples already fit 8 bits
// (pnm.MaxValFor reports 255 and nothing is far below zero) are clamped as
// in ToGray; wider grids are windowed linearly from their minimum to their
// maximum.
func Display(g *grid.Grid) *image.Gray {
	lo, hi := g.MinMax()
	if lo >= -undershoot && pnm.MaxValFor(g) == math.MaxUint8 {
		return ToGray(g)
	}
	return Window(g, lo, hi)
}

// Window maps [lo, hi] linearly onto [0, 255]. Samples outside the window are
// clamped; an empty window renders every sample below hi as black.
func Window(g *grid.Grid, lo, hi float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	span := hi - lo
	for y := range g.Height() {
		for x, v := range g.Row(y) {
			var p uint8
			switch {
			case span > 0:
				p = clamp8((v - lo) / span * math.MaxUint8)
			case v >= hi:
				p = math.MaxUint8
			}
			img.SetGray(x, y, color.Gray{Y: p})
		}
	}
	return img
}

func clamp8(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}

// FitPowerOfTwo resamples g with a Catmull-Rom kernel so that both sides are
// powers of two no smaller than grid.MinDimension. A grid that already fits
// is returned unchanged.
func FitPowerOfTwo(g *grid.Grid) *grid.Grid {
	w := grid.NextPowerOfTwo(max(g.Width(), grid.MinDimension))
	h := grid.NextPowerOfTwo(max(g.Height(), grid.MinDimension))
	if w == g.Width() && h == g.Height() {
		return g
	}
	if g.Len() == 0 {
		return grid.New(w, h)
	}
	return Resample(g, w, h)
}

// Resample scales g to width x height. Samples are mapped linearly onto 16
// bits for the resampling, so values outside [0, 255] survive.
func Resample(g *grid.Grid, width, height int) *grid.Grid {
	lo, hi := g.MinMax()
	span := hi - lo
	if span == 0 {
		out := grid.New(width, height)
		out.Fill(lo)
		return out
	}

	src := image.NewGray16(image.Rect(0, 0, g.Width(), g.Height()))
	for y := range g.Height() {
		for x, v := range g.Row(y) {
			src.SetGray16(x, y, color.Gray16{Y: uint16(math.Round((v - lo) / span * math.MaxUint16))})
		}
	}

	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)

	out := grid.New(width, height)
	for y := range height {
		row := out.Row(y)
		for x := range width {
			row[x] = lo + float64(dst.Gray16At(x, y).Y)/math.MaxUint16*span
		}
	}
	return out
}
