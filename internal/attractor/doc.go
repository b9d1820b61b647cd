// Package attractor samples classic strange attractors into point clouds.
//
// Continuous systems (Lorenz, Rössler, Thomas) are integrated with a fixed
// step; the Clifford system is a discrete 2D map lifted into 3D. Each
// system discards an initial transient before recording samples, and the
// resulting clouds carry positions only.
//
// # Example
//
//	sys, err := attractor.New("lorenz")
//	if err != nil {
//	    return err
//	}
//	cloud, err := attractor.Generate(ctx, sys, attractor.DefaultSteps, attractor.DefaultDT)
package attractor
