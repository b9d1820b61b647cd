package attractor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

const (
	DefaultSteps = 50000
	DefaultDT    = 0.01

	checkEvery = 1 << 14
)

var (
	ErrUnknownSystem = errors.New("attractor: unknown system")
	ErrUnknownParam  = errors.New("attractor: unknown parameter")
	ErrDiverged      = errors.New("attractor: state diverged")
	ErrInvalidSteps  = errors.New("attractor: steps must be >= 0 and dt finite")
	ErrCanceled      = errors.New("attractor: generation canceled")
)

var registry = map[string]func() System{
	"lorenz":   func() System { return NewLorenz() },
	"rossler":  func() System { return NewRossler() },
	"thomas":   func() System { return NewThomas() },
	"clifford": func() System { return NewClifford() },
}

// New returns a system with its default parameters.
func New(name string) (System, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Generate advances sys for steps iterations and records every state
// after the transient. The cloud has max(0, steps-Transient()-1) points
// and no colors.
func Generate(ctx context.Context, sys System, steps int, dt float64) (*pointcloud.Cloud, error) {
	if steps < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, ErrInvalidSteps
	}
	skip := sys.Transient()
	n := steps - skip - 1
	if n < 0 {
		n = 0
	}
	positions := make([]float32, 0, n*3)

	s := sys.Start()
	for i := 0; i < steps; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
			}
		}
		s = sys.Advance(s, dt)
		if i <= skip {
			continue
		}
		p := sys.Project(s)
		if !finite(p) {
			return nil, fmt.Errorf("%w: %s at step %d", ErrDiverged, sys.Name(), i)
		}
		positions = append(positions, float32(p[0]), float32(p[1]), float32(p[2]))
	}

	return pointcloud.New(positions, nil)
}

func finite(p [3]float64) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
