package viz

import (
	"math"
	"sort"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera orbits a target. Points are first moved so Target sits at the
// origin and divided by Extent, which puts a fitted cloud inside the unit
// cube before rotation and perspective.
type Camera struct {
	Target           Vec3
	Extent           float64
	Distance, Near   float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// Default orbit angles give a three-quarter view.
const (
	DefaultRotX = -0.45
	DefaultRotY = 0.6
)

func NewCamera() *Camera {
	return &Camera{Extent: 1, Distance: 10, Near: 0.1, RotX: DefaultRotX, RotY: DefaultRotY, Zoom: 1.0}
}

// FitCamera returns a default camera aimed at the center of b and scaled so
// its largest side spans the view.
func FitCamera(b pointcloud.Box) *Camera {
	cam := NewCamera()
	c := b.Center()
	cam.Target = Vec3{c[0], c[1], c[2]}
	s := b.Size()
	ext := math.Max(s[0], math.Max(s[1], s[2])) / 2
	if ext > 0 && !math.IsInf(ext, 0) && !math.IsNaN(ext) {
		cam.Extent = ext
	}
	return cam
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Reset restores the default orbit and zoom, keeping the fit.
func (c *Camera) Reset() {
	c.RotX, c.RotY, c.RotZ, c.Zoom = DefaultRotX, DefaultRotY, 0, 1
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// View maps a world point into normalized view space.
func (c *Camera) View(p Vec3) Vec3 {
	ext := c.Extent
	if ext <= 0 {
		ext = 1
	}
	return c.RotatePoint(p.Sub(c.Target).Scale(1 / ext)).Scale(c.Zoom)
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility. Larger depth is nearer.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.View(p)
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 4.2
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Len() int          { return len(w.Edges) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// BoxWireframe returns the twelve edges of b.
func BoxWireframe(b pointcloud.Box) *Wireframe {
	w := NewWireframe()
	lo, hi := b.Min, b.Max
	v := []Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}

// AxesWireframe returns X, Y and Z axes of length l from origin.
func AxesWireframe(origin Vec3, l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(origin, origin.Add(Vec3{l, 0, 0}))
	w.AddEdge(origin, origin.Add(Vec3{0, l, 0}))
	w.AddEdge(origin, origin.Add(Vec3{0, 0, l}))
	return w
}
