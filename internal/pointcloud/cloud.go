// Package pointcloud holds the immutable output of a generation run.
package pointcloud

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLengthMismatch indicates colors present with a different length than positions.
	ErrLengthMismatch = errors.New("pointcloud: colors length differs from positions length")

	// ErrNotTriples indicates a flat slice whose length is not a multiple of 3.
	ErrNotTriples = errors.New("pointcloud: length is not a multiple of 3")
)

// Cloud is a flat (x,y,z) position array with an optional parallel (r,g,b)
// color array in [0,1]. A Cloud is never modified after construction;
// accessors that return slices hand out the backing arrays, which callers
// must treat as read-only.
type Cloud struct {
	positions []float32
	colors    []float32
}

// New wraps positions and colors without copying. colors may be nil.
func New(positions, colors []float32) (*Cloud, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: positions has %d values", ErrNotTriples, len(positions))
	}
	if colors != nil && len(colors) != len(positions) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(colors), len(positions))
	}
	return &Cloud{positions: positions, colors: colors}, nil
}

// Empty returns a cloud with no points.
func Empty() *Cloud {
	return &Cloud{positions: []float32{}}
}

// Len returns the number of points. A nil cloud has zero points.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.positions) / 3
}

func (c *Cloud) IsEmpty() bool { return c.Len() == 0 }

func (c *Cloud) HasColors() bool {
	return c != nil && c.colors != nil && len(c.colors) == len(c.positions)
}

// Positions returns the backing position array. Do not modify.
func (c *Cloud) Positions() []float32 {
	if c == nil {
		return nil
	}
	return c.positions
}

// Colors returns the backing color array, or nil. Do not modify.
func (c *Cloud) Colors() []float32 {
	if c == nil {
		return nil
	}
	return c.colors
}

func (c *Cloud) At(i int) (x, y, z float32) {
	j := i * 3
	return c.positions[j], c.positions[j+1], c.positions[j+2]
}

// ColorAt returns the i-th color. It returns white when the cloud has no colors.
func (c *Cloud) ColorAt(i int) (r, g, b float32) {
	if !c.HasColors() {
		return 1, 1, 1
	}
	j := i * 3
	return c.colors[j], c.colors[j+1], c.colors[j+2]
}

// Scaled returns a new cloud with every coordinate multiplied by s. Colors
// are shared with the receiver.
func (c *Cloud) Scaled(s float32) *Cloud {
	if c == nil {
		return Empty()
	}
	if s == 1 {
		return c
	}
	p := make([]float32, len(c.positions))
	for i, v := range c.positions {
		p[i] = v * s
	}
	return &Cloud{positions: p, colors: c.colors}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max [3]float64
}

func (b Box) Size() [3]float64 {
	return [3]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

func (b Box) Center() [3]float64 {
	return [3]float64{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// Bounds computes per-axis min/max in one pass. Comparisons are done in
// float64 so the full float32 range is representable. An empty cloud
// yields the zero Box.
func (c *Cloud) Bounds() Box {
	if c.IsEmpty() {
		return Box{}
	}
	b := Box{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i < len(c.positions); i += 3 {
		for axis := 0; axis < 3; axis++ {
			v := float64(c.positions[i+axis])
			if v < b.Min[axis] {
				b.Min[axis] = v
			}
			if v > b.Max[axis] {
				b.Max[axis] = v
			}
		}
	}
	return b
}
