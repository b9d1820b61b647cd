package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// PLYHeader returns the text header, including the trailing end_header line.
func PLYHeader(vertices int, enc Encoding, colors bool) string {
	format := "ascii 1.0"
	if enc == Binary {
		format = "binary_little_endian 1.0"
	}

	var b strings.Builder
	b.WriteString("ply\n")
	b.WriteString("format " + format + "\n")
	b.WriteString("comment Generated by " + Generator + "\n")
	b.WriteString("element vertex " + strconv.Itoa(vertices) + "\n")
	b.WriteString("property float x\nproperty float y\nproperty float z\n")
	if colors {
		b.WriteString("property uchar red\nproperty uchar green\nproperty uchar blue\n")
	}
	b.WriteString("end_header\n")
	return b.String()
}

// EncodePLY writes c as a PLY vertex list. Each coordinate is multiplied
// by opts.Scale; colors are written as uchar when requested and present.
func EncodePLY(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, &CodecError{Format: PLY, Index: -1, Err: err}
	}

	enc := opts.Encoding
	if enc == "" {
		enc = ASCII
	}
	n := c.Len()
	hasColors := opts.IncludeColors && c.HasColors()
	scale := opts.scale()

	cw := newCountingWriter(w)
	if _, err := cw.WriteString(PLYHeader(n, enc, hasColors)); err != nil {
		return Stats{}, err
	}

	pos, col := c.Positions(), c.Colors()
	var err error
	if enc == Binary {
		err = writePLYBinary(cw, pos, col, n, hasColors, scale)
	} else {
		err = writePLYASCII(cw, pos, col, n, hasColors, scale)
	}
	if err != nil {
		return Stats{}, err
	}
	if err := cw.Flush(); err != nil {
		return Stats{}, err
	}

	return Stats{Vertices: n, Bytes: cw.n, HasColors: hasColors}, nil
}

func writePLYASCII(w *countingWriter, pos, col []float32, n int, hasColors bool, scale float64) error {
	line := make([]byte, 0, 64)
	for i := 0; i < n; i++ {
		j := i * 3
		line = line[:0]
		line = strconv.AppendFloat(line, float64(pos[j])*scale, 'f', 6, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, float64(pos[j+1])*scale, 'f', 6, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, float64(pos[j+2])*scale, 'f', 6, 64)
		if hasColors {
			for k := 0; k < 3; k++ {
				line = append(line, ' ')
				line = strconv.AppendUint(line, uint64(channelByte(col[j+k])), 10)
			}
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func writePLYBinary(w *countingWriter, pos, col []float32, n int, hasColors bool, scale float64) error {
	var rec [15]byte
	size := 12
	if hasColors {
		size = 15
	}
	for i := 0; i < n; i++ {
		j := i * 3
		binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(float32(float64(pos[j])*scale)))
		binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(float32(float64(pos[j+1])*scale)))
		binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(float32(float64(pos[j+2])*scale)))
		if hasColors {
			rec[12] = channelByte(col[j])
			rec[13] = channelByte(col[j+1])
			rec[14] = channelByte(col[j+2])
		}
		if _, err := w.Write(rec[:size]); err != nil {
			return err
		}
	}
	return nil
}

// PLYInfo describes a parsed PLY header.
type PLYInfo struct {
	Encoding   Encoding
	Vertices   int
	Comments   []string
	Properties []string
	HasColors  bool
	HeaderSize int
}

type plyProperty struct {
	name string
	kind string
}

// ReadPLY parses a PLY vertex list written by this package or any file
// whose first element is "vertex" with scalar properties. Properties x, y,
// z and red, green, blue are extracted; others are skipped. Colors are
// returned normalized to [0,1].
func ReadPLY(r io.Reader) (*pointcloud.Cloud, PLYInfo, error) {
	br := bufio.NewReader(r)
	info, props, err := readPLYHeader(br)
	if err != nil {
		return nil, info, err
	}

	slot := make([]int, len(props))
	for i, p := range props {
		slot[i] = -1
		switch p.name {
		case "x":
			slot[i] = 0
		case "y":
			slot[i] = 1
		case "z":
			slot[i] = 2
		case "red", "r":
			slot[i] = 3
		case "green", "g":
			slot[i] = 4
		case "blue", "b":
			slot[i] = 5
		}
	}

	prealloc := min(info.Vertices, maxPreallocPoints) * 3
	positions := make([]float32, 0, prealloc)
	var colors []float32
	if info.HasColors {
		colors = make([]float32, 0, prealloc)
	}

	var values [6]float64
	for i := 0; i < info.Vertices; i++ {
		if info.Encoding == Binary {
			err = readPLYBinaryVertex(br, props, slot, &values)
		} else {
			err = readPLYASCIIVertex(br, props, slot, &values)
		}
		if err != nil {
			if !errors.Is(err, ErrMalformed) {
				err = fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return nil, info, &CodecError{Format: PLY, Index: i, Err: err}
		}
		positions = append(positions, float32(values[0]), float32(values[1]), float32(values[2]))
		if colors != nil {
			colors = append(colors, float32(values[3]/255), float32(values[4]/255), float32(values[5]/255))
		}
	}

	cloud, err := pointcloud.New(positions, colors)
	return cloud, info, err
}

func readPLYHeader(br *bufio.Reader) (PLYInfo, []plyProperty, error) {
	var info PLYInfo
	var props []plyProperty

	malformed := func(format string, args ...any) error {
		return &CodecError{Format: PLY, Index: -1, Err: fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))}
	}

	line, err := br.ReadString('\n')
	info.HeaderSize += len(line)
	if err != nil || strings.TrimSpace(line) != "ply" {
		return info, nil, malformed("missing ply magic")
	}

	inVertex, seenVertex := false, false
	for {
		line, err = br.ReadString('\n')
		info.HeaderSize += len(line)
		if err != nil {
			return info, nil, malformed("header not terminated")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "end_header":
			if !seenVertex {
				return info, nil, malformed("no vertex element")
			}
			for _, p := range props {
				info.Properties = append(info.Properties, p.name)
			}
			return info, props, nil
		case "format":
			if len(fields) < 2 {
				return info, nil, malformed("bad format line")
			}
			switch fields[1] {
			case "ascii":
				info.Encoding = ASCII
			case "binary_little_endian":
				info.Encoding = Binary
			default:
				return info, nil, malformed("unsupported format %q", fields[1])
			}
		case "comment", "obj_info":
			info.Comments = append(info.Comments, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		case "element":
			if len(fields) < 3 {
				return info, nil, malformed("bad element line")
			}
			inVertex = fields[1] == "vertex"
			if inVertex {
				if seenVertex || len(props) > 0 {
					return info, nil, malformed("vertex must be the first element")
				}
				n, err := strconv.Atoi(fields[2])
				if err != nil || n < 0 || n > math.MaxInt/3 {
					return info, nil, malformed("bad vertex count %q", fields[2])
				}
				info.Vertices = n
				seenVertex = true
			} else if !seenVertex {
				return info, nil, malformed("vertex must be the first element")
			}
		case "property":
			if !inVertex {
				continue
			}
			if len(fields) != 3 {
				return info, nil, malformed("unsupported property %q", strings.TrimSpace(line))
			}
			if plyTypeSize(fields[1]) == 0 {
				return info, nil, malformed("unsupported property type %q", fields[1])
			}
			props = append(props, plyProperty{name: fields[2], kind: fields[1]})
			if fields[2] == "red" || fields[2] == "r" {
				info.HasColors = true
			}
		}
	}
}

func plyTypeSize(kind string) int {
	switch kind {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

func readPLYASCIIVertex(br *bufio.Reader, props []plyProperty, slot []int, out *[6]float64) error {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) < len(props) {
		return fmt.Errorf("%w: expected %d values, got %d", ErrMalformed, len(props), len(fields))
	}
	for i := range props {
		if slot[i] < 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out[slot[i]] = v
	}
	return nil
}

func readPLYBinaryVertex(br *bufio.Reader, props []plyProperty, slot []int, out *[6]float64) error {
	var buf [8]byte
	for i, p := range props {
		size := plyTypeSize(p.kind)
		if _, err := io.ReadFull(br, buf[:size]); err != nil {
			return err
		}
		if slot[i] < 0 {
			continue
		}
		var v float64
		le := binary.LittleEndian
		switch p.kind {
		case "char", "int8":
			v = float64(int8(buf[0]))
		case "uchar", "uint8":
			v = float64(buf[0])
		case "short", "int16":
			v = float64(int16(le.Uint16(buf[:])))
		case "ushort", "uint16":
			v = float64(le.Uint16(buf[:]))
		case "int", "int32":
			v = float64(int32(le.Uint32(buf[:])))
		case "uint", "uint32":
			v = float64(le.Uint32(buf[:]))
		case "float", "float32":
			v = float64(math.Float32frombits(le.Uint32(buf[:])))
		case "double", "float64":
			v = math.Float64frombits(le.Uint64(buf[:]))
		}
		out[slot[i]] = v
	}
	return nil
}
