package dicomgrid

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/cocosip/go-dicom/pkg/dicom/dataset"
	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/dicom/vr"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPixels16(t *testing.T) {
	raw := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0x10, 0x00}

	g, err := FromPixels(raw, 2, 2, 16, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 65535, 32768, 16}, g.Data())

	g, err = FromPixels(raw, 2, 2, 16, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1, -32768, 16}, g.Data())
}

// An 8-bit buffer holding two frames must not be read as one 16-bit frame.
func TestFromPixelsBitsAllocatedWins(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	g, err := FromPixels(raw, 2, 2, 8, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, g.Data())
}

func TestFromPixels8(t *testing.T) {
	raw := []byte{0, 127, 128, 255}

	g, err := FromPixels(raw, 4, 1, 8, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 127, 128, 255}, g.Data())

	g, err = FromPixels(raw, 4, 1, 0, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 127, -128, -1}, g.Data())
}

func TestFromPixelsErrors(t *testing.T) {
	wide := make([]byte, 16)
	for i := range 4 {
		binary.LittleEndian.PutUint32(wide[4*i:], uint32(100000+i))
	}

	tests := []struct {
		name          string
		raw           []byte
		width         int
		bitsAllocated int
	}{
		{name: "Short inferred", raw: []byte{1, 2, 3}, width: 2},
		{name: "Short 16 bit", raw: []byte{1, 2, 3, 4}, width: 2, bitsAllocated: 16},
		{name: "Zero width", raw: nil, width: 0, bitsAllocated: 8},
		{name: "Packed 1 bit", raw: []byte{0xff}, width: 2, bitsAllocated: 1},
		{name: "12 bit", raw: wide[:8], width: 2, bitsAllocated: 12},
		{name: "32 bit", raw: wide, width: 2, bitsAllocated: 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPixels(tt.raw, tt.width, 2, tt.bitsAllocated, false)
			assert.ErrorIs(t, err, ErrPixelData)
		})
	}
}

func nativeDataset(t *testing.T, samples []uint16, width, height int) *dataset.Dataset {
	t.Helper()
	raw := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], v)
	}
	ds := dataset.New()
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.Rows, []uint16{uint16(height)})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.Columns, []uint16{uint16(width)})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.BitsAllocated, []uint16{16})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.BitsStored, []uint16{12})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.HighBit, []uint16{11})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.SamplesPerPixel, []uint16{1})))
	require.NoError(t, ds.Add(element.NewUnsignedShort(tag.PixelRepresentation, []uint16{0})))
	require.NoError(t, ds.Add(element.NewString(tag.PhotometricInterpretation, vr.CS, []string{"MONOCHROME2"})))
	require.NoError(t, ds.Add(element.NewOtherWord(tag.PixelData, raw)))
	return ds
}

func TestDecodeNative(t *testing.T) {
	samples := []uint16{0, 1, 4095, 2048, 7, 7, 7, 300}
	ds := nativeDataset(t, samples, 4, 2)

	for _, ts := range []*transfer.Syntax{nil, transfer.ExplicitVRLittleEndian} {
		f, err := Decode(ds, ts)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 4095, 2048, 7, 7, 7, 300}, f.Grid.Data())
		assert.Equal(t, 12, f.BitsStored)
		assert.False(t, f.Signed)
		assert.Equal(t, "MONOCHROME2", f.PhotometricInterpretation)
	}
}

func TestDecodeRLE(t *testing.T) {
	samples := make([]uint16, 16)
	for i := range samples {
		samples[i] = uint16(i * 250)
	}
	rle, err := codec.NewTranscoder(transfer.ExplicitVRLittleEndian, transfer.RLELossless).
		Transcode(nativeDataset(t, samples, 4, 4))
	require.NoError(t, err)

	f, err := Decode(rle, transfer.RLELossless)
	require.NoError(t, err)
	require.Equal(t, 4, f.Grid.Width())
	for i, v := range samples {
		assert.Equal(t, float64(v), f.Grid.Data()[i], "sample %d", i)
	}
}

func TestDecodeUnregisteredCodec(t *testing.T) {
	_, err := Decode(nativeDataset(t, make([]uint16, 16), 4, 4), transfer.JPEGBaseline8Bit)
	assert.ErrorIs(t, err, ErrEncapsulated)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.dcm"))
	assert.Error(t, err)
}
