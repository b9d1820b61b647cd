package analysis

import (
	"math"

	"github.com/san-kum/ifscloud/internal/attractor"
)

// LyapunovExponent estimates the largest Lyapunov exponent of sys with the
// two-trajectory renormalization method. A positive value indicates chaos.
//
// The companion trajectory starts d0 away along x and is pulled back to
// distance d0 after every step. For continuous systems the result is per
// unit time; for maps it is per iteration.
func LyapunovExponent(sys attractor.System, dt float64, steps int, d0 float64) float64 {
	if steps <= 0 || d0 <= 0 {
		return 0
	}

	x := sys.Start()
	for i := 0; i <= sys.Transient(); i++ {
		x = sys.Advance(x, dt)
	}
	xp := x
	xp[0] += d0

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		x = sys.Advance(x, dt)
		xp = sys.Advance(xp, dt)

		sep := 0.0
		for k := range x {
			diff := xp[k] - x[k]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for k := range xp {
			xp[k] = x[k] + (xp[k]-x[k])*scale
		}
	}

	if count == 0 {
		return 0
	}
	lambda := sumLog / float64(count)
	if _, discrete := sys.(attractor.Discrete); discrete || dt == 0 {
		return lambda
	}
	return lambda / dt
}
