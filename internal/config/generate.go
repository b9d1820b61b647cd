package config

import (
	"context"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

func (s *Settings) orDefault() *Settings {
	if s == nil {
		return DefaultSettings()
	}
	return s
}

// Engine returns a chaos engine seeded from Seed, or from the clock when
// RandomSeed is set.
func (s *Settings) Engine() *chaos.Engine {
	s = s.orDefault()
	if s.RandomSeed {
		return chaos.New(nil)
	}
	return chaos.NewSeeded(s.Seed)
}

// RunConfig maps the settings onto an engine run at display scale.
func (s *Settings) RunConfig() chaos.Config {
	s = s.orDefault()
	return chaos.Config{Points: s.Iterations, Skip: s.SkipInitial}
}

// Transforms returns the matrices to run, normalized when AutoNormalize is
// set.
func (d *Document) Transforms() []ifs.Transform {
	if d.Settings.orDefault().AutoNormalize {
		return ifs.Normalize(d.Matrices)
	}
	return d.Matrices
}

// Generate plays the chaos game described by the document.
func (d *Document) Generate(ctx context.Context, progress chaos.Progress) (*pointcloud.Cloud, error) {
	cfg := d.Settings.RunConfig()
	cfg.Progress = progress
	return d.Settings.Engine().Run(ctx, d.Transforms(), cfg)
}
