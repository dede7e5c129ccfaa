// Package dicomgrid extracts the first greyscale frame of a DICOM file as a
// grid. Encapsulated transfer syntaxes are decoded with the codecs registered
// in go-dicom's global codec registry (RLE Lossless is built in; importing a
// codec package for its side effects adds more).
package dicomgrid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cocosip/go-dicom/pkg/dicom/dataset"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"

	"github.com/cocosip/go-daubechies/grid"
)

var (
	// ErrEncapsulated is returned for compressed transfer syntaxes that have no
	// registered codec or fail to decode.
	ErrEncapsulated = errors.New("dicomgrid: cannot decode encapsulated pixel data")
	// ErrColor is returned when SamplesPerPixel is not 1.
	ErrColor = errors.New("dicomgrid: only single-sample (greyscale) images are supported")
	// ErrPixelData is returned when the pixel data element is missing or too short.
	ErrPixelData = errors.New("dicomgrid: invalid pixel data")
)

// Frame is one decoded greyscale frame.
type Frame struct {
	Grid                      *grid.Grid
	BitsStored                int
	Signed                    bool
	PhotometricInterpretation string
}

// ReadFile parses path and returns its first frame.
func ReadFile(path string) (*Frame, error) {
	res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Decode(res.Dataset, res.TransferSyntax)
}

// Decode returns the first frame of ds, stored with transfer syntax ts. A nil
// ts is treated as native pixel data.
func Decode(ds *dataset.Dataset, ts *transfer.Syntax) (*Frame, error) {
	if ts != nil && ts.IsEncapsulated() {
		if !codec.GetGlobalRegistry().HasCodec(ts) {
			return nil, fmt.Errorf("%w: no codec for %s", ErrEncapsulated, ts.UID().UID())
		}
		native, err := codec.NewTranscoder(ts, transfer.ExplicitVRLittleEndian).Transcode(ds)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncapsulated, err)
		}
		ds = native
	}

	pd, err := imaging.CreatePixelData(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPixelData, err)
	}
	info := pd.Info
	if samples := int(info.SamplesPerPixel); samples != 1 {
		return nil, fmt.Errorf("%w: %d samples per pixel", ErrColor, samples)
	}
	frame, err := pd.GetFrame(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPixelData, err)
	}

	signed := info.PixelRepresentation != 0
	g, err := FromPixels(frame, int(info.Width), int(info.Height), int(info.BitsAllocated), signed)
	if err != nil {
		return nil, err
	}
	f := &Frame{Grid: g, BitsStored: int(info.BitsStored), Signed: signed}
	if pi, ok := ds.GetString(tag.PhotometricInterpretation); ok {
		f.PhotometricInterpretation = strings.TrimSpace(pi)
	}
	return f, nil
}

// FromPixels converts the first frame of native little-endian pixel data into
// a grid. bitsAllocated must be 8 or 16; with 0 the sample width is inferred
// from the buffer length.
func FromPixels(raw []byte, width, height, bitsAllocated int, signed bool) (*grid.Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrPixelData, width, height)
	}
	n := width * height

	var wide bool
	switch bitsAllocated {
	case 0:
		wide = len(raw) >= 2*n
	case 8:
	case 16:
		wide = true
	default:
		return nil, fmt.Errorf("%w: %d bits allocated per sample", ErrPixelData, bitsAllocated)
	}
	size := n
	if wide {
		size = 2 * n
	}
	if len(raw) < size {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d samples", ErrPixelData, len(raw), width, height)
	}

	g := grid.New(width, height)
	data := g.Data()
	for i := range data {
		switch {
		case wide && signed:
			data[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		case wide:
			data[i] = float64(binary.LittleEndian.Uint16(raw[2*i:]))
		case signed:
			data[i] = float64(int8(raw[i]))
		default:
			data[i] = float64(raw[i])
		}
	}
	return g, nil
}
