package attractor

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// Scheme maps the position t in [0,1) along a trajectory to a color.
type Scheme func(t float64) colorful.Color

var solid = func() colorful.Color {
	c := ifs.MustParseColor("#00ff88").Normalized()
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
}()

var schemes = map[string]Scheme{
	"rainbow": func(t float64) colorful.Color { return colorful.Hsl(t*360, 1, 0.5) },
	"fire":    func(t float64) colorful.Color { return colorful.Hsl(t*0.15*360, 1, 0.5+t*0.3) },
	"ice":     func(t float64) colorful.Color { return colorful.Hsl((0.6-t*0.2)*360, 0.8, 0.4+t*0.4) },
	"plasma":  func(t float64) colorful.Color { return colorful.Hsl((0.8-t*0.3)*360, 1, 0.3+t*0.5) },
	"solid":   func(float64) colorful.Color { return solid },
}

func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for n := range schemes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Colorize returns a copy of c whose i-th point is colored by the named
// scheme at t = i/len. Positions are shared with c.
func Colorize(c *pointcloud.Cloud, scheme string) (*pointcloud.Cloud, error) {
	fn, ok := schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("attractor: unknown color scheme: %s", scheme)
	}
	n := c.Len()
	colors := make([]float32, n*3)
	for i := 0; i < n; i++ {
		col := fn(float64(i) / float64(n)).Clamped()
		colors[i*3] = float32(col.R)
		colors[i*3+1] = float32(col.G)
		colors[i*3+2] = float32(col.B)
	}
	return pointcloud.New(c.Positions(), colors)
}
