// Package pnm reads and writes netpbm greyscale and colour images as grids.
// Colour pixels are reduced to the mean of their three samples.
package pnm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/bits"
	"strconv"

	"github.com/pkg/errors"

	"github.com/cocosip/go-daubechies/grid"
)

// Format is a netpbm variant.
type Format int

const (
	// PlainGray is "P2": ASCII greyscale.
	PlainGray Format = iota + 2
	// PlainRGB is "P3": ASCII colour.
	PlainRGB
	_
	// RawGray is "P5": binary greyscale.
	RawGray
	// RawRGB is "P6": binary colour.
	RawRGB
)

const (
	// maxSamples bounds the allocation a header can request.
	maxSamples = 1 << 28

	// overshoot is how far above 255 a sample may ring and still be written
	// at 8 bits by MaxValFor.
	overshoot = 64
)

var (
	// ErrBadMagic is returned for input that is not P2, P3, P5 or P6.
	ErrBadMagic = errors.New("pnm: unsupported magic")
	// ErrCorrupt is returned for malformed headers or short pixel data.
	ErrCorrupt = errors.New("pnm: corrupt image")
)

// String returns the magic number, e.g. "P3".
func (f Format) String() string {
	return "P" + strconv.Itoa(int(f))
}

func (f Format) valid() bool {
	return f == PlainGray || f == PlainRGB || f == RawGray || f == RawRGB
}

func (f Format) channels() int {
	if f == PlainRGB || f == RawRGB {
		return 3
	}
	return 1
}

func (f Format) plain() bool {
	return f == PlainGray || f == PlainRGB
}

// Image is a decoded netpbm file.
type Image struct {
	Grid   *grid.Grid
	Format Format
	MaxVal int
}

// Decode reads a netpbm image. Comments ('#' to end of line) are accepted
// anywhere a header token may start.
func Decode(r io.Reader) (*Image, error) {
	s := &scanner{r: bufio.NewReader(r)}

	magic, err := s.token()
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, "missing magic")
	}
	format := Format(0)
	if len(magic) == 2 && magic[0] == 'P' {
		format = Format(magic[1] - '0')
	}
	if !format.valid() {
		return nil, errors.Wrapf(ErrBadMagic, "%q", magic)
	}

	width, err := s.int("width")
	if err != nil {
		return nil, err
	}
	height, err := s.int("height")
	if err != nil {
		return nil, err
	}
	maxVal, err := s.int("maxval")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || height > maxSamples/width {
		return nil, errors.Wrapf(ErrCorrupt, "bad dimensions %dx%d", width, height)
	}
	if maxVal <= 0 || maxVal > math.MaxUint16 {
		return nil, errors.Wrapf(ErrCorrupt, "bad maxval %d", maxVal)
	}

	img := &Image{Grid: grid.New(width, height), Format: format, MaxVal: maxVal}
	next := s.plainSample
	if !format.plain() {
		next = s.rawSampler(maxVal)
	}

	channels := format.channels()
	data := img.Grid.Data()
	for i := range data {
		sum := 0
		for range channels {
			v, err := next()
			if err != nil {
				return nil, errors.Wrapf(err, "pixel %d", i)
			}
			sum += v
		}
		data[i] = float64(sum) / float64(channels)
	}
	return img, nil
}

// MaxValFor returns the maxval that keeps the sample range of g: 255 for
// 8-bit data (allowing some overshoot from lossy reconstruction), otherwise
// the smallest 2^k-1 holding the largest sample, capped at 65535.
func MaxValFor(g *grid.Grid) int {
	_, hi := g.MinMax()
	switch {
	case !(hi > math.MaxUint8+overshoot):
		return math.MaxUint8
	case hi >= math.MaxUint16:
		return math.MaxUint16
	default:
		return 1<<bits.Len(uint(math.Round(hi))) - 1
	}
}

// Encode writes g with the given maxval. Samples are rounded and clamped to
// [0, maxVal]; colour formats repeat the grey value in every channel. Raw
// formats use two big-endian bytes per sample when maxVal exceeds 255.
func Encode(w io.Writer, g *grid.Grid, format Format, maxVal int) error {
	if !format.valid() {
		return errors.Wrapf(ErrBadMagic, "%v", format)
	}
	if maxVal <= 0 || maxVal > math.MaxUint16 {
		return errors.Errorf("pnm: maxval %d out of range", maxVal)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", format, g.Width(), g.Height(), maxVal); err != nil {
		return errors.WithStack(err)
	}

	wide := maxVal > math.MaxUint8
	sample := make([]byte, 0, 6)
	switch format {
	case PlainGray:
		for r := range g.Height() {
			for c, v := range g.Row(r) {
				if c > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(strconv.Itoa(toSample(v, maxVal)))
			}
			bw.WriteByte('\n')
		}
	case PlainRGB:
		for _, v := range g.Data() {
			s := strconv.Itoa(toSample(v, maxVal))
			bw.WriteString(s + " " + s + " " + s + "\n")
		}
	case RawGray, RawRGB:
		for _, v := range g.Data() {
			s := toSample(v, maxVal)
			sample = sample[:0]
			for range format.channels() {
				if wide {
					sample = append(sample, byte(s>>8))
				}
				sample = append(sample, byte(s))
			}
			bw.Write(sample)
		}
	}
	return errors.WithStack(bw.Flush())
}

// toSample rounds v to the nearest sample in [0, maxVal]. NaN maps to 0.
func toSample(v float64, maxVal int) int {
	switch {
	case !(v > 0):
		return 0
	case v >= float64(maxVal):
		return maxVal
	default:
		return int(math.Round(v))
	}
}

type scanner struct {
	r *bufio.Reader
}

// token returns the next whitespace-separated header or plain-sample token,
// consuming exactly one whitespace byte after it. A comment may follow a
// token directly; it is consumed up to and including the end of its line.
func (s *scanner) token() (string, error) {
	var b []byte
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(b) > 0 {
				return string(b), nil
			}
			return "", err
		}
		switch {
		case c == '#':
			if _, err := s.r.ReadString('\n'); err != nil && (err != io.EOF || len(b) == 0) {
				return "", err
			}
			if len(b) > 0 {
				return string(b), nil
			}
		case isSpace(c):
			if len(b) > 0 {
				return string(b), nil
			}
		default:
			b = append(b, c)
		}
	}
}

func (s *scanner) int(what string) (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, errors.Wrapf(ErrCorrupt, "missing %s", what)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(ErrCorrupt, "bad %s %q", what, tok)
	}
	return v, nil
}

func (s *scanner) plainSample() (int, error) {
	return s.int("sample")
}

// rawSampler reads one or two big-endian bytes per sample depending on maxVal.
func (s *scanner) rawSampler(maxVal int) func() (int, error) {
	width := 1
	if maxVal > math.MaxUint8 {
		width = 2
	}
	buf := make([]byte, width)
	return func() (int, error) {
		if _, err := io.ReadFull(s.r, buf); err != nil {
			return 0, errors.Wrap(ErrCorrupt, "short pixel data")
		}
		if width == 1 {
			return int(buf[0]), nil
		}
		return int(buf[0])<<8 | int(buf[1]), nil
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
