package export

import (
	"github.com/chewxy/math32"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// Mesh is an indexed triangle list. Colors is nil or parallel to Vertices.
type Mesh struct {
	Vertices []float32
	Colors   []float32
	Faces    []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

func (m *Mesh) FaceCount() int { return len(m.Faces) / 3 }

// SimpleMesh downsamples c by keeping every step-th point, where step is
// floor(1/density) clamped to [1, len(c)], scales the kept points, then
// walks them in consecutive triples. A triple becomes a face only when all
// three edges are shorter than 0.5*scale.
//
// This is not surface reconstruction. Chaos game order is random, so
// consecutive points are rarely neighbours and most triples are rejected.
func SimpleMesh(c *pointcloud.Cloud, scale, density float64) *Mesh {
	if density <= 0 {
		density = 1
	}
	n := c.Len()
	step := 1
	if inv := 1 / density; inv >= float64(max(n, 1)) {
		step = max(n, 1)
	} else if inv > 1 {
		step = int(inv)
	}

	s := float32(scale)
	pos, col := c.Positions(), c.Colors()
	m := &Mesh{}
	kept := (n + step - 1) / step
	m.Vertices = make([]float32, 0, kept*3)
	if c.HasColors() {
		m.Colors = make([]float32, 0, kept*3)
	}
	for i := 0; i < n; i += step {
		j := i * 3
		m.Vertices = append(m.Vertices, pos[j]*s, pos[j+1]*s, pos[j+2]*s)
		if m.Colors != nil {
			m.Colors = append(m.Colors, col[j], col[j+1], col[j+2])
		}
	}

	maxDist := 0.5 * s
	v := m.Vertices
	count := len(v) / 3
	for i := 0; i+2 < count; i += 3 {
		if dist(v, i, i+1) < maxDist && dist(v, i+1, i+2) < maxDist && dist(v, i+2, i) < maxDist {
			m.Faces = append(m.Faces, uint32(i), uint32(i+1), uint32(i+2))
		}
	}
	return m
}

func dist(v []float32, a, b int) float32 {
	a, b = a*3, b*3
	return math32.Sqrt(sq(v[a]-v[b]) + sq(v[a+1]-v[b+1]) + sq(v[a+2]-v[b+2]))
}

func sq(x float32) float32 { return x * x }
