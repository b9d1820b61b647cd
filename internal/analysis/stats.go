package analysis

import (
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

type Stats struct {
	Points   int
	Bounds   pointcloud.Box
	Centroid [3]float64
	// Hits counts points per enabled transform, attributed by color. When
	// two transforms share a color the first one gets every hit.
	Hits []int
	// Unattributed counts points whose color matches no enabled transform.
	Unattributed int
}

// Share returns the fraction of points produced by the i-th enabled transform.
func (s Stats) Share(i int) float64 {
	if s.Points == 0 || i < 0 || i >= len(s.Hits) {
		return 0
	}
	return float64(s.Hits[i]) / float64(s.Points)
}

// Compute summarizes c. ts may be nil, in which case Hits is empty.
func Compute(c *pointcloud.Cloud, ts []ifs.Transform) Stats {
	enabled := ifs.Enabled(ts)
	st := Stats{
		Points: c.Len(),
		Bounds: c.Bounds(),
		Hits:   make([]int, len(enabled)),
	}
	if st.Points == 0 {
		return st
	}

	owner := make(map[[3]float32]int, len(enabled))
	for i := len(enabled) - 1; i >= 0; i-- {
		owner[enabled[i].Color.Normalized()] = i
	}

	var sum [3]float64
	pos := c.Positions()
	for i := 0; i < st.Points; i++ {
		j := i * 3
		sum[0] += float64(pos[j])
		sum[1] += float64(pos[j+1])
		sum[2] += float64(pos[j+2])

		if !c.HasColors() || len(enabled) == 0 {
			continue
		}
		r, g, b := c.ColorAt(i)
		if k, ok := owner[[3]float32{r, g, b}]; ok {
			st.Hits[k]++
		} else {
			st.Unattributed++
		}
	}

	n := float64(st.Points)
	st.Centroid = [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
	return st
}

// Histogram counts points per equal-width bin along axis (0=x, 1=y, 2=z)
// between the cloud's bounds on that axis.
func Histogram(c *pointcloud.Cloud, axis, bins int) []int {
	if bins <= 0 || axis < 0 || axis > 2 {
		return nil
	}
	counts := make([]int, bins)
	n := c.Len()
	if n == 0 {
		return counts
	}

	b := c.Bounds()
	lo, width := b.Min[axis], b.Max[axis]-b.Min[axis]
	pos := c.Positions()
	for i := 0; i < n; i++ {
		k := 0
		if width > 0 {
			k = int((float64(pos[i*3+axis]) - lo) / width * float64(bins))
		}
		if k >= bins {
			k = bins - 1
		}
		if k < 0 {
			k = 0
		}
		counts[k]++
	}
	return counts
}
