package export

import (
	"io"
	"strconv"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// EncodeOBJ writes c as a Wavefront OBJ point list, or as a triangle mesh
// built by SimpleMesh when opts.GenerateMesh is set.
func EncodeOBJ(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, &CodecError{Format: OBJ, Index: -1, Err: err}
	}
	hasColors := opts.IncludeColors && c.HasColors()
	cw := newCountingWriter(w)

	var st Stats
	var err error
	if opts.GenerateMesh {
		m := SimpleMesh(c, opts.scale(), opts.density())
		st, err = writeOBJMesh(cw, m, hasColors)
	} else {
		st, err = writeOBJPoints(cw, c, opts.scale(), hasColors)
	}
	if err != nil {
		return Stats{}, err
	}
	if err := cw.Flush(); err != nil {
		return Stats{}, err
	}
	st.Bytes = cw.n
	st.HasColors = hasColors
	return st, nil
}

func appendOBJVertex(line []byte, x, y, z float64, col []float32) []byte {
	line = append(line, 'v', ' ')
	line = strconv.AppendFloat(line, x, 'f', 6, 64)
	line = append(line, ' ')
	line = strconv.AppendFloat(line, y, 'f', 6, 64)
	line = append(line, ' ')
	line = strconv.AppendFloat(line, z, 'f', 6, 64)
	for _, ch := range col {
		line = append(line, ' ')
		line = strconv.AppendFloat(line, float64(ch), 'f', 3, 32)
	}
	return append(line, '\n')
}

func writeOBJPoints(w *countingWriter, c *pointcloud.Cloud, scale float64, hasColors bool) (Stats, error) {
	n := c.Len()
	header := "# OBJ file created by " + Generator + "\n" +
		"# Vertices: " + strconv.Itoa(n) + "\n" +
		"# Format: Point Cloud\n\n"
	if _, err := w.WriteString(header); err != nil {
		return Stats{}, err
	}

	pos, col := c.Positions(), c.Colors()
	line := make([]byte, 0, 96)
	for i := 0; i < n; i++ {
		j := i * 3
		var rgb []float32
		if hasColors {
			rgb = col[j : j+3]
		}
		line = appendOBJVertex(line[:0], float64(pos[j])*scale, float64(pos[j+1])*scale, float64(pos[j+2])*scale, rgb)
		if _, err := w.Write(line); err != nil {
			return Stats{}, err
		}
	}

	if _, err := w.WriteString("\n# Points\n"); err != nil {
		return Stats{}, err
	}
	for i := 1; i <= n; i++ {
		line = append(strconv.AppendInt(append(line[:0], 'p', ' '), int64(i), 10), '\n')
		if _, err := w.Write(line); err != nil {
			return Stats{}, err
		}
	}
	return Stats{Vertices: n}, nil
}

func writeOBJMesh(w *countingWriter, m *Mesh, hasColors bool) (Stats, error) {
	nv, nf := m.VertexCount(), m.FaceCount()
	header := "# OBJ file created by " + Generator + "\n" +
		"# Mesh Export\n" +
		"# Vertices: " + strconv.Itoa(nv) + "\n" +
		"# Faces: " + strconv.Itoa(nf) + "\n\n"
	if _, err := w.WriteString(header); err != nil {
		return Stats{}, err
	}

	line := make([]byte, 0, 96)
	v := m.Vertices
	for i := 0; i < nv; i++ {
		j := i * 3
		var rgb []float32
		if hasColors && m.Colors != nil {
			rgb = m.Colors[j : j+3]
		}
		line = appendOBJVertex(line[:0], float64(v[j]), float64(v[j+1]), float64(v[j+2]), rgb)
		if _, err := w.Write(line); err != nil {
			return Stats{}, err
		}
	}

	if _, err := w.WriteString("\n# Faces\n"); err != nil {
		return Stats{}, err
	}
	for i := 0; i < len(m.Faces); i += 3 {
		line = append(line[:0], 'f')
		for k := 0; k < 3; k++ {
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(m.Faces[i+k])+1, 10)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return Stats{}, err
		}
	}
	return Stats{Vertices: nv, Faces: nf}, nil
}
