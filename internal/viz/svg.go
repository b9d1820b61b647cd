package viz

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// SVGOptions controls SVG rendering. Zero fields take the defaults below.
type SVGOptions struct {
	Width, Height int
	Radius        float64
	// MaxPoints caps the number of circles; larger clouds are strided.
	MaxPoints  int
	Background string
}

const (
	DefaultSVGSize       = 800
	DefaultSVGRadius     = 0.8
	DefaultSVGMaxPoints  = 50000
	DefaultSVGBackground = "#0a0a0a"
)

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Width <= 0 {
		o.Width = DefaultSVGSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSVGSize
	}
	if o.Radius <= 0 {
		o.Radius = DefaultSVGRadius
	}
	if o.MaxPoints <= 0 {
		o.MaxPoints = DefaultSVGMaxPoints
	}
	if o.Background == "" {
		o.Background = DefaultSVGBackground
	}
	return o
}

type svgDot struct {
	x, y, depth float64
	fill        string
}

// SVG renders c as circles viewed through cam, far points first. A nil
// camera is fitted to the cloud. The projected extent is padded by 10%.
func SVG(w io.Writer, c *pointcloud.Cloud, cam *Camera, opts SVGOptions) error {
	opts = opts.withDefaults()
	if cam == nil {
		cam = FitCamera(c.Bounds())
	}

	stride := 1
	if n := c.Len(); n > opts.MaxPoints {
		stride = (n + opts.MaxPoints - 1) / opts.MaxPoints
	}
	colored := c.HasColors()
	dots := make([]svgDot, 0, c.Len()/stride+1)
	for i := 0; i < c.Len(); i += stride {
		x, y, z := c.At(i)
		v := cam.View(Vec3{float64(x), float64(y), float64(z)})
		fill := DefaultInk.Hex()
		if colored {
			fill = pointColor(c, i).Hex()
		}
		dots = append(dots, svgDot{x: v.X, y: v.Y, depth: v.Z, fill: fill})
	}

	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for i, d := range dots {
		if i == 0 || d.x < minX {
			minX = d.x
		}
		if i == 0 || d.x > maxX {
			maxX = d.x
		}
		if i == 0 || d.y < minY {
			minY = d.y
		}
		if i == 0 || d.y > maxY {
			maxY = d.y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	sort.SliceStable(dots, func(i, j int) bool { return dots[i].depth < dots[j].depth })

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)

	for _, d := range dots {
		x := (d.x - minX) / rangeX * float64(opts.Width)
		y := float64(opts.Height) - (d.y-minY)/rangeY*float64(opts.Height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, opts.Radius, d.fill)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
