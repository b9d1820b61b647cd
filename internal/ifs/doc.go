// Package ifs provides the core primitives of an iterated function system.
//
// The package defines the data the chaos game consumes:
//
//   - [Transform]: one weighted 3D affine map with a display color
//   - [Color]: an 8-bit RGB tag attached to every point a transform emits
//   - [Normalize]: rescales enabled weights into a probability distribution
//   - [Distribution]: cumulative weights used for weighted selection
//
// # Example
//
//	ts := []ifs.Transform{
//	    ifs.Scale(0.5).WithColor(ifs.RGB(255, 0, 0)),
//	    ifs.Scale(0.5).Translate(0.5, 0, 0),
//	}
//	dist := ifs.NewDistribution(ifs.Enabled(ts))
//	idx := dist.Pick(rng.Float64() * dist.Total())
//
// # Thread Safety
//
// All functions are pure. Transform values are copied by value and a
// Distribution is read-only once built, so both can be shared freely.
package ifs
