package chaos

import (
	"context"

	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

const (
	// DefaultHighDensityPoints is the bulk export target.
	DefaultHighDensityPoints = 2_000_000

	// HighDensityScale multiplies coordinates of bulk clouds.
	HighDensityScale = 10.0
)

type HighDensityConfig struct {
	// Points is the target point count; zero means DefaultHighDensityPoints.
	Points     int
	CheckEvery int
	Progress   Progress
}

// HighDensity generates a bulk cloud for file export. It ignores any
// display point budget: weights are always normalized, there is no burn-in
// and coordinates use HighDensityScale.
func (e *Engine) HighDensity(ctx context.Context, ts []ifs.Transform, cfg HighDensityConfig) (*pointcloud.Cloud, error) {
	points := cfg.Points
	if points == 0 {
		points = DefaultHighDensityPoints
	}
	return e.Run(ctx, ifs.Normalize(ts), Config{
		Points:     points,
		Scale:      HighDensityScale,
		CheckEvery: cfg.CheckEvery,
		Progress:   cfg.Progress,
	})
}
