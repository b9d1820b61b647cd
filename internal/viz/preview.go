package viz

import (
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// DefaultInk colors points of a cloud without colors.
var DefaultInk = ifs.MustParseColor("#00ff88")

// Preview projects every point of c onto a w x h braille canvas. A nil
// camera is fitted to the cloud bounds.
func Preview(c *pointcloud.Cloud, cam *Camera, w, h int) *Canvas {
	canvas := NewCanvas(w, h)
	if c.IsEmpty() {
		return canvas
	}
	if cam == nil {
		cam = FitCamera(c.Bounds())
	}
	sw, sh := canvas.Dots()
	colored := c.HasColors()
	for i := 0; i < c.Len(); i++ {
		x, y, z := c.At(i)
		px, py, depth, ok := cam.Project(Vec3{float64(x), float64(y), float64(z)}, sw, sh)
		if !ok {
			continue
		}
		ink := DefaultInk
		if colored {
			ink = pointColor(c, i)
		}
		canvas.Plot(px, py, depth, ink)
	}
	return canvas
}

func pointColor(c *pointcloud.Cloud, i int) ifs.Color {
	r, g, b := c.ColorAt(i)
	return ifs.RGB(channel(r), channel(g), channel(b))
}

func channel(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
