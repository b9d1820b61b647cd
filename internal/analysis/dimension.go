package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// ErrNotContractive indicates an enabled map whose contraction factor is >= 1.
var ErrNotContractive = errors.New("analysis: transform set is not contractive")

// ContractionFactor returns the spectral norm of the linear part of t:
// the largest factor by which the map can stretch a distance.
func ContractionFactor(t ifs.Transform) float64 {
	m := t.Matrix()
	// A = MᵀM is symmetric positive semi-definite.
	var a [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				a[i][j] += m[k*3+i] * m[k*3+j]
			}
		}
	}
	return math.Sqrt(math.Max(0, largestEigen(a)))
}

// largestEigen uses the closed form for symmetric 3x3 matrices.
func largestEigen(a [3][3]float64) float64 {
	p1 := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
	if p1 == 0 {
		return math.Max(a[0][0], math.Max(a[1][1], a[2][2]))
	}
	q := (a[0][0] + a[1][1] + a[2][2]) / 3
	p2 := sq(a[0][0]-q) + sq(a[1][1]-q) + sq(a[2][2]-q) + 2*p1
	p := math.Sqrt(p2 / 6)

	var b [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = a[i][j] / p
			if i == j {
				b[i][j] -= q / p
			}
		}
	}
	r := (b[0][0]*(b[1][1]*b[2][2]-b[1][2]*b[2][1]) -
		b[0][1]*(b[1][0]*b[2][2]-b[1][2]*b[2][0]) +
		b[0][2]*(b[1][0]*b[2][1]-b[1][1]*b[2][0])) / 2
	r = math.Max(-1, math.Min(1, r))
	return q + 2*p*math.Cos(math.Acos(r)/3)
}

func sq(x float64) float64 { return x * x }

// IsContractive reports whether every enabled map has a factor below 1.
func IsContractive(ts []ifs.Transform) bool {
	for _, t := range ifs.Enabled(ts) {
		if ContractionFactor(t) >= 1 {
			return false
		}
	}
	return true
}

// SimilarityDimension solves sum(r_i^D) = 1 over the contraction factors
// of the enabled maps. It equals the Hausdorff dimension of the attractor
// for similarities satisfying the open set condition and is an upper
// bound otherwise.
func SimilarityDimension(ts []ifs.Transform) (float64, error) {
	var rs []float64
	for _, t := range ifs.Enabled(ts) {
		r := ContractionFactor(t)
		if r >= 1 {
			return 0, ErrNotContractive
		}
		if r > 0 {
			rs = append(rs, r)
		}
	}
	if len(rs) == 0 {
		return 0, nil
	}

	f := func(d float64) float64 {
		s := 0.0
		for _, r := range rs {
			s += math.Pow(r, d)
		}
		return s - 1
	}

	lo, hi := 0.0, 1.0
	for f(hi) > 0 && hi < 1e6 {
		lo, hi = hi, hi*2
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if f(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// BoxDimension estimates the box-counting dimension of c by counting
// occupied cells at grid sizes 2^1 .. 2^maxLevel of its bounding cube and
// fitting log(count) against log(cells per side).
func BoxDimension(c *pointcloud.Cloud, maxLevel int) float64 {
	if c.Len() < 2 || maxLevel < 2 {
		return 0
	}
	b := c.Bounds()
	size := b.Size()
	extent := math.Max(size[0], math.Max(size[1], size[2]))
	if extent == 0 {
		return 0
	}

	pos := c.Positions()
	var xs, ys []float64
	for level := 1; level <= maxLevel; level++ {
		cells := 1 << level
		occupied := make(map[[3]int]struct{})
		for i := 0; i < len(pos); i += 3 {
			var key [3]int
			for axis := 0; axis < 3; axis++ {
				k := int((float64(pos[i+axis]) - b.Min[axis]) / extent * float64(cells))
				key[axis] = min(k, cells-1)
			}
			occupied[key] = struct{}{}
		}
		xs = append(xs, math.Log(float64(cells)))
		ys = append(ys, math.Log(float64(len(occupied))))
	}
	return slope(xs, ys)
}

func slope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
