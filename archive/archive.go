// Package archive stores a coefficient grid together with the transform
// settings needed to invert it.
//
// Layout (big endian):
//
//	magic    [4]byte "D4WC"
//	version  uint8
//	scheme   uint8   codec ID
//	flags    uint8   bit 0: normalized taps
//	filter   uint8
//	norm     uint8
//	width    uint32
//	height   uint32
//	quality  float64
//	length   uint32  payload bytes
//	payload  zstd frame
//
// The decompressed payload is a sequence of (uvarint zero run, float64 value)
// pairs in row-major order. A trailing zero run is written without a value.
package archive

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/wavelet"
)

const (
	version    = 1
	headerSize = 4 + 5 + 4 + 4 + 8 + 4

	// maxSamples bounds the allocation a header can request.
	maxSamples = 1 << 28
)

var magic = [4]byte{'D', '4', 'W', 'C'}

var (
	// ErrBadMagic is returned when the input is not a coefficient archive.
	ErrBadMagic = errors.New("archive: bad magic")
	// ErrCorrupt is returned when the header or payload is inconsistent.
	ErrCorrupt = errors.New("archive: corrupt data")
)

// The zstd coders are shared; EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
)

// Header carries the transform settings of an archived grid.
type Header struct {
	Scheme     uint8
	Normalized bool
	Filter     wavelet.Filter
	Normalize  codec.NormMode
	Width      int
	Height     int
	Quality    float64
	// Payload is the compressed payload size. It is filled in by Read and
	// ignored by Write.
	Payload int
}

// HeaderFor builds the header describing coefficients produced by c with opts.
func HeaderFor(c codec.Codec, g *grid.Grid, opts *codec.Options) Header {
	return Header{
		Scheme:     c.ID(),
		Normalized: opts.Normalized,
		Filter:     opts.Filter,
		Normalize:  opts.Normalize,
		Width:      g.Width(),
		Height:     g.Height(),
		Quality:    opts.Quality,
	}
}

// Options returns codec options matching the header.
func (h Header) Options() *codec.Options {
	return codec.NewOptions().
		WithNormalized(h.Normalized).
		WithFilter(h.Filter).
		WithNormalize(h.Normalize).
		WithQuality(h.Quality)
}

// Marshal encodes g with header h. The width and height in h are taken from g.
func Marshal(h Header, g *grid.Grid) ([]byte, error) {
	if g.Width() > math.MaxUint32 || g.Height() > math.MaxUint32 {
		return nil, errors.Errorf("archive: grid %dx%d too large", g.Width(), g.Height())
	}
	enc, err := encoder()
	if err != nil {
		return nil, errors.Wrap(err, "archive: create zstd encoder")
	}
	payload := enc.EncodeAll(packRuns(g.Data()), nil)
	if len(payload) > math.MaxUint32 {
		return nil, errors.Errorf("archive: payload of %d bytes too large", len(payload))
	}

	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, magic[:]...)
	var flags uint8
	if h.Normalized {
		flags |= 1
	}
	out = append(out, version, h.Scheme, flags, uint8(h.Filter), uint8(h.Normalize))
	out = binary.BigEndian.AppendUint32(out, uint32(g.Width()))
	out = binary.BigEndian.AppendUint32(out, uint32(g.Height()))
	out = binary.BigEndian.AppendUint64(out, math.Float64bits(h.Quality))
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...), nil
}

// Unmarshal decodes an archive produced by Marshal.
func Unmarshal(data []byte) (Header, *grid.Grid, error) {
	h, err := parseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	body := data[headerSize:]
	if len(body) != h.Payload {
		return Header{}, nil, errors.Wrapf(ErrCorrupt, "payload is %d bytes, header says %d", len(body), h.Payload)
	}

	dec, err := decoder()
	if err != nil {
		return Header{}, nil, errors.Wrap(err, "archive: create zstd decoder")
	}
	raw, err := dec.DecodeAll(body, nil)
	if err != nil {
		return Header{}, nil, errors.Wrap(err, "archive: decompress payload")
	}
	g := grid.New(h.Width, h.Height)
	if err := unpackRuns(raw, g.Data()); err != nil {
		return Header{}, nil, err
	}
	return h, g, nil
}

// ReadHeader decodes only the fixed-size header.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Header{}, errors.Wrap(ErrCorrupt, "short header")
		}
		return Header{}, errors.WithStack(err)
	}
	return parseHeader(buf)
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic[:]) {
		return Header{}, ErrBadMagic
	}
	if len(data) < headerSize {
		return Header{}, errors.Wrap(ErrCorrupt, "short header")
	}
	if data[4] != version {
		return Header{}, errors.Wrapf(ErrCorrupt, "unsupported version %d", data[4])
	}

	h := Header{
		Scheme:     data[5],
		Normalized: data[6]&1 != 0,
		Filter:     wavelet.Filter(data[7]),
		Normalize:  codec.NormMode(data[8]),
		Width:      int(binary.BigEndian.Uint32(data[9:])),
		Height:     int(binary.BigEndian.Uint32(data[13:])),
		Quality:    math.Float64frombits(binary.BigEndian.Uint64(data[17:])),
		Payload:    int(binary.BigEndian.Uint32(data[25:])),
	}
	if h.Width > 0 && h.Height > maxSamples/h.Width {
		return Header{}, errors.Wrapf(ErrCorrupt, "grid %dx%d too large", h.Width, h.Height)
	}
	return h, nil
}

// Write encodes g with header h to w.
func Write(w io.Writer, h Header, g *grid.Grid) error {
	data, err := Marshal(h, g)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.WithStack(err)
}

// Read decodes an archive from r.
func Read(r io.Reader) (Header, *grid.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, errors.WithStack(err)
	}
	return Unmarshal(data)
}

// WriteFile writes an archive to path.
func WriteFile(path string, h Header, g *grid.Grid) error {
	data, err := Marshal(h, g)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "archive: write %s", path)
}

// ReadFile reads an archive from path.
func ReadFile(path string) (Header, *grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, errors.Wrapf(err, "archive: read %s", path)
	}
	return Unmarshal(data)
}

// packRuns writes the zero-run representation of data.
func packRuns(data []float64) []byte {
	out := make([]byte, 0, len(data))
	run := uint64(0)
	for _, v := range data {
		if v == 0 {
			run++
			continue
		}
		out = binary.AppendUvarint(out, run)
		out = binary.BigEndian.AppendUint64(out, math.Float64bits(v))
		run = 0
	}
	if run > 0 {
		out = binary.AppendUvarint(out, run)
	}
	return out
}

// unpackRuns fills dst from packRuns output. dst must be zeroed.
func unpackRuns(raw []byte, dst []float64) error {
	pos := 0
	for pos < len(dst) {
		run, n := binary.Uvarint(raw)
		if n <= 0 {
			return errors.Wrapf(ErrCorrupt, "bad zero run at sample %d", pos)
		}
		raw = raw[n:]
		if run > uint64(len(dst)-pos) {
			return errors.Wrapf(ErrCorrupt, "zero run of %d overflows grid at sample %d", run, pos)
		}
		pos += int(run)
		if pos == len(dst) {
			break
		}
		if len(raw) < 8 {
			return errors.Wrapf(ErrCorrupt, "truncated value at sample %d", pos)
		}
		dst[pos] = math.Float64frombits(binary.BigEndian.Uint64(raw))
		raw = raw[8:]
		pos++
	}
	if len(raw) != 0 {
		return errors.Wrapf(ErrCorrupt, "%d trailing payload bytes", len(raw))
	}
	return nil
}
