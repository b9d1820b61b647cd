package chaos

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

const (
	// DisplayScale multiplies every recorded coordinate.
	DisplayScale = 5.0

	// DefaultCheckEvery is the number of iterations between cancellation checks.
	DefaultCheckEvery = 1 << 16
)

var (
	// ErrInvalidConfig indicates a negative point or skip count.
	ErrInvalidConfig = errors.New("chaos: invalid configuration")

	// ErrCanceled indicates the run stopped because its context ended.
	ErrCanceled = errors.New("chaos: generation canceled")
)

// Progress receives the number of recorded points so far and the target.
type Progress func(done, total int)

type Config struct {
	// Points is the number of points to record.
	Points int
	// Skip is the number of burn-in iterations discarded before recording.
	Skip int
	// Scale multiplies recorded coordinates; zero means DisplayScale.
	Scale float64
	// Start is the initial cursor.
	Start [3]float64
	// CheckEvery is the iteration interval between context checks and
	// progress reports; zero means DefaultCheckEvery.
	CheckEvery int
	Progress   Progress
}

func (c Config) validate() error {
	if c.Points < 0 {
		return fmt.Errorf("%w: points must be >= 0, got %d", ErrInvalidConfig, c.Points)
	}
	if c.Skip < 0 {
		return fmt.Errorf("%w: skip must be >= 0, got %d", ErrInvalidConfig, c.Skip)
	}
	if c.CheckEvery < 0 {
		return fmt.Errorf("%w: check interval must be >= 0, got %d", ErrInvalidConfig, c.CheckEvery)
	}
	return nil
}

type Engine struct {
	rng *rand.Rand
}

// New returns an engine drawing from rng. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// NewSeeded returns an engine whose output is reproducible for a given seed.
func NewSeeded(seed int64) *Engine {
	return New(rand.New(rand.NewSource(seed)))
}

// compiled is the per-run snapshot of one enabled transform.
type compiled struct {
	m     [9]float64
	t     [3]float64
	color [3]float32
}

// Run plays cfg.Skip+cfg.Points rounds of the chaos game over the enabled
// transforms of ts and returns exactly cfg.Points points. With no enabled
// transforms it returns an empty cloud and no error. Weights are used as
// given; normalize them first if the caller wants that.
func (e *Engine) Run(ctx context.Context, ts []ifs.Transform, cfg Config) (*pointcloud.Cloud, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	enabled := ifs.Enabled(ts)
	if len(enabled) == 0 {
		return pointcloud.Empty(), nil
	}
	if err := ifs.ValidateAll(enabled); err != nil {
		return nil, err
	}

	scale := cfg.Scale
	if scale == 0 {
		scale = DisplayScale
	}
	checkEvery := cfg.CheckEvery
	if checkEvery == 0 {
		checkEvery = DefaultCheckEvery
	}

	dist := ifs.NewDistribution(enabled)
	total := dist.Total()
	maps := make([]compiled, len(enabled))
	for i, t := range enabled {
		maps[i] = compiled{m: t.Matrix(), t: t.Translation(), color: t.Color.Normalized()}
	}

	positions := make([]float32, cfg.Points*3)
	colors := make([]float32, cfg.Points*3)

	x, y, z := cfg.Start[0], cfg.Start[1], cfg.Start[2]
	iterations := cfg.Points + cfg.Skip
	idx := 0

	for i := 0; i < iterations; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w after %d of %d iterations: %w", ErrCanceled, i, iterations, err)
			}
			if cfg.Progress != nil && i > 0 {
				cfg.Progress(idx/3, cfg.Points)
			}
		}

		k := dist.Pick(e.rng.Float64() * total)
		f := &maps[k]

		x, y, z = f.m[0]*x+f.m[1]*y+f.m[2]*z+f.t[0],
			f.m[3]*x+f.m[4]*y+f.m[5]*z+f.t[1],
			f.m[6]*x+f.m[7]*y+f.m[8]*z+f.t[2]

		if i >= cfg.Skip {
			positions[idx] = float32(x * scale)
			positions[idx+1] = float32(y * scale)
			positions[idx+2] = float32(z * scale)
			colors[idx] = f.color[0]
			colors[idx+1] = f.color[1]
			colors[idx+2] = f.color[2]
			idx += 3
		}
	}

	if cfg.Progress != nil {
		cfg.Progress(cfg.Points, cfg.Points)
	}

	return pointcloud.New(positions, colors)
}
