// Package chaos implements the chaos game over an iterated function system.
//
// An [Engine] repeatedly picks an enabled transform by weight, applies it to
// a running point and records the result together with the transform's
// color. The first Skip iterations are discarded so the orbit can settle on
// the attractor before anything is recorded.
//
// # Example
//
//	eng := chaos.NewSeeded(42)
//	cloud, err := eng.Run(ctx, transforms, chaos.Config{Points: 50000, Skip: 1000})
//	if err != nil {
//	    return err
//	}
//	if cloud.IsEmpty() {
//	    // no enabled transforms
//	}
//
// # Thread Safety
//
// An Engine owns its random source and is NOT safe for concurrent use. Run
// one Engine per goroutine; the returned clouds are immutable and may be
// shared.
package chaos
