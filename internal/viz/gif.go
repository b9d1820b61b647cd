package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// Pixel size of one braille cell in rasterized frames.
const (
	cellW = 8
	cellH = 16
)

var ErrNoFrames = errors.New("viz: frame count must be positive")

// Raster converts the canvas to an image, one block of dots per lit
// sub-pixel. Inked cells use their color, the rest use fallback.
func (c *Canvas) Raster(fallback color.Color) *image.Paletted {
	palette := color.Palette{color.Black, fallback}
	index := map[[3]uint8]uint8{}
	for i := range c.Grid {
		for j := range c.Grid[i] {
			if !c.inked[i][j] || len(palette) >= 256 {
				continue
			}
			k := [3]uint8{c.ink[i][j].R, c.ink[i][j].G, c.ink[i][j].B}
			if _, ok := index[k]; !ok {
				index[k] = uint8(len(palette))
				palette = append(palette, color.RGBA{k[0], k[1], k[2], 255})
			}
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), palette)
	dotW, dotH := cellW/2, cellH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			if r == blank {
				continue
			}
			ci := uint8(1)
			if c.inked[row][col] {
				ink := c.ink[row][col]
				if idx, ok := index[[3]uint8{ink.R, ink.G, ink.B}]; ok {
					ci = idx
				}
			}
			baseX, baseY := col*cellW, row*cellH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if int(r-blank)&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, ci)
						}
					}
				}
			}
		}
	}
	return img
}

// Turntable writes an animated GIF of c rotating once about the vertical
// axis. w and h are the braille canvas size of each frame.
func Turntable(out io.Writer, c *pointcloud.Cloud, frames, w, h int) error {
	if frames <= 0 {
		return ErrNoFrames
	}
	cam := FitCamera(c.Bounds())
	fallback := color.RGBA{DefaultInk.R, DefaultInk.G, DefaultInk.B, 255}
	anim := gif.GIF{LoopCount: 0}
	step := 2 * math.Pi / float64(frames)
	for i := 0; i < frames; i++ {
		anim.Image = append(anim.Image, Preview(c, cam, w, h).Raster(fallback))
		anim.Delay = append(anim.Delay, 5)
		cam.RotateY(step)
	}
	return gif.EncodeAll(out, &anim)
}
