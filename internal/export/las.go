package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

const (
	// LASHeaderSize is the public header block size of LAS 1.2.
	LASHeaderSize = 227
	// LASCoordinateScale is the fixed quantum of stored coordinates.
	LASCoordinateScale = 0.001

	lasRecordXYZ = 20
	lasRecordRGB = 26

	// LAZCompressionRatio is the ratio the LAZ size estimate assumes.
	LAZCompressionRatio = 7

	// maxPreallocPoints caps what readers reserve from a header count;
	// larger files grow as records arrive.
	maxPreallocPoints = 1 << 20
)

// LASHeader is the LAS 1.2 public header block in file order.
type LASHeader struct {
	Signature          [4]byte
	FileSourceID       uint16
	GlobalEncoding     uint16
	ProjectID          [16]byte
	VersionMajor       uint8
	VersionMinor       uint8
	SystemIdentifier   [32]byte
	GeneratingSoftware [32]byte
	CreationDay        uint16
	CreationYear       uint16
	HeaderSize         uint16
	OffsetToPointData  uint32
	NumVLRs            uint32
	PointFormat        uint8
	RecordLength       uint16
	PointCount         uint32
	PointsByReturn     [5]uint32
	XScale             float64
	YScale             float64
	ZScale             float64
	XOffset            float64
	YOffset            float64
	ZOffset            float64
	MaxX               float64
	MinX               float64
	MaxY               float64
	MinY               float64
	MaxZ               float64
	MinZ               float64
}

func lasRecordLength(format uint8) uint16 {
	if format == 2 {
		return lasRecordRGB
	}
	return lasRecordXYZ
}

func newLASHeader(n int, format uint8, box pointcloud.Box, opts Options) LASHeader {
	now := opts.now()
	h := LASHeader{
		Signature:         [4]byte{'L', 'A', 'S', 'F'},
		VersionMajor:      1,
		VersionMinor:      2,
		CreationDay:       uint16(now.YearDay()),
		CreationYear:      uint16(now.Year()),
		HeaderSize:        LASHeaderSize,
		OffsetToPointData: LASHeaderSize,
		PointFormat:       format,
		RecordLength:      lasRecordLength(format),
		PointCount:        uint32(n),
		PointsByReturn:    [5]uint32{uint32(n)},
		XScale:            LASCoordinateScale,
		YScale:            LASCoordinateScale,
		ZScale:            LASCoordinateScale,
		MaxX:              box.Max[0],
		MinX:              box.Min[0],
		MaxY:              box.Max[1],
		MinY:              box.Min[1],
		MaxZ:              box.Max[2],
		MinZ:              box.Min[2],
	}
	copy(h.SystemIdentifier[:], Generator)
	copy(h.GeneratingSoftware[:], Generator+" v"+Version)
	return h
}

// EncodeLAS writes c as an uncompressed LAS 1.2 file. Point format 2 is
// used when colors are requested and present, format 0 otherwise.
// Coordinates are validated against the int32 grid before any byte is
// written.
func EncodeLAS(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	return encodeLAS(w, c, opts, LAS)
}

// EncodeLAZ writes the same bytes as EncodeLAS. Compression is not
// implemented; the output is a valid LAS file under a LAZ name.
func EncodeLAZ(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	return encodeLAS(w, c, opts, LAZ)
}

func encodeLAS(w io.Writer, c *pointcloud.Cloud, opts Options, f Format) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, &CodecError{Format: f, Index: -1, Err: err}
	}

	n := c.Len()
	if uint64(n) > math.MaxUint32 {
		return Stats{}, &CodecError{Format: f, Index: -1, Err: ErrTooManyPoints}
	}

	hasColors := opts.IncludeColors && c.HasColors()
	var format uint8
	if hasColors {
		format = 2
	}

	scaled := scaledPositions(c.Positions(), opts.scale())
	box := boundsOf(scaled)
	for i, v := range scaled {
		if q := math.Round(float64(v) / LASCoordinateScale); q > math.MaxInt32 || q < math.MinInt32 || math.IsNaN(q) {
			return Stats{}, &CodecError{Format: f, Index: i / 3, Err: ErrCoordinateRange}
		}
	}

	cw := newCountingWriter(w)
	h := newLASHeader(n, format, box, opts)
	if err := binary.Write(cw, binary.LittleEndian, &h); err != nil {
		return Stats{}, err
	}

	col := c.Colors()
	size := int(h.RecordLength)
	var rec [lasRecordRGB]byte
	le := binary.LittleEndian
	for i := 0; i < n; i++ {
		j := i * 3
		le.PutUint32(rec[0:], uint32(int32(math.Round(float64(scaled[j])/LASCoordinateScale))))
		le.PutUint32(rec[4:], uint32(int32(math.Round(float64(scaled[j+1])/LASCoordinateScale))))
		le.PutUint32(rec[8:], uint32(int32(math.Round(float64(scaled[j+2])/LASCoordinateScale))))
		// intensity 0; return number 1 with number of returns 0;
		// classification, scan angle, user data and point source all zero.
		rec[12], rec[13] = 0, 0
		rec[14] = 1
		rec[15], rec[16], rec[17], rec[18], rec[19] = 0, 0, 0, 0, 0
		if hasColors {
			le.PutUint16(rec[20:], uint16(channelByte(col[j])))
			le.PutUint16(rec[22:], uint16(channelByte(col[j+1])))
			le.PutUint16(rec[24:], uint16(channelByte(col[j+2])))
		}
		if _, err := cw.Write(rec[:size]); err != nil {
			return Stats{}, err
		}
	}
	if err := cw.Flush(); err != nil {
		return Stats{}, err
	}

	return Stats{Vertices: n, Bytes: cw.n, HasColors: hasColors}, nil
}

func scaledPositions(pos []float32, scale float64) []float32 {
	if scale == 1 {
		return pos
	}
	out := make([]float32, len(pos))
	for i, v := range pos {
		out[i] = float32(float64(v) * scale)
	}
	return out
}

func boundsOf(pos []float32) pointcloud.Box {
	c, err := pointcloud.New(pos, nil)
	if err != nil {
		return pointcloud.Box{}
	}
	return c.Bounds()
}

// ReadLASHeader decodes the public header block.
func ReadLASHeader(r io.Reader) (LASHeader, error) {
	var h LASHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, &CodecError{Format: LAS, Index: -1, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if !bytes.Equal(h.Signature[:], []byte("LASF")) {
		return h, &CodecError{Format: LAS, Index: -1, Err: fmt.Errorf("%w: bad signature %q", ErrMalformed, h.Signature[:])}
	}
	if h.PointFormat != 0 && h.PointFormat != 2 {
		return h, &CodecError{Format: LAS, Index: -1, Err: fmt.Errorf("%w: point format %d", ErrMalformed, h.PointFormat)}
	}
	if h.RecordLength < lasRecordLength(h.PointFormat) {
		return h, &CodecError{Format: LAS, Index: -1, Err: fmt.Errorf("%w: record length %d", ErrMalformed, h.RecordLength)}
	}
	return h, nil
}

// ReadLAS decodes a point format 0 or 2 file into a cloud. Stored RGB
// values are assumed to be 8-bit values widened to 16 bits.
func ReadLAS(r io.Reader) (*pointcloud.Cloud, LASHeader, error) {
	h, err := ReadLASHeader(r)
	if err != nil {
		return nil, h, err
	}
	if skip := int64(h.OffsetToPointData) - LASHeaderSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, h, &CodecError{Format: LAS, Index: -1, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
		}
	}

	n := int(h.PointCount)
	prealloc := min(n, maxPreallocPoints) * 3
	positions := make([]float32, 0, prealloc)
	var colors []float32
	if h.PointFormat == 2 {
		colors = make([]float32, 0, prealloc)
	}

	rec := make([]byte, h.RecordLength)
	le := binary.LittleEndian
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, h, &CodecError{Format: LAS, Index: i, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
		}
		positions = append(positions,
			float32(float64(int32(le.Uint32(rec[0:])))*h.XScale+h.XOffset),
			float32(float64(int32(le.Uint32(rec[4:])))*h.YScale+h.YOffset),
			float32(float64(int32(le.Uint32(rec[8:])))*h.ZScale+h.ZOffset))
		if colors != nil {
			colors = append(colors,
				float32(le.Uint16(rec[20:]))/255,
				float32(le.Uint16(rec[22:]))/255,
				float32(le.Uint16(rec[24:]))/255)
		}
	}

	cloud, err := pointcloud.New(positions, colors)
	return cloud, h, err
}
