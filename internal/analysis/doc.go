// Package analysis characterizes generated clouds and the maps behind them.
//
//   - [Compute]: bounds, centroid and per-transform hit counts of a cloud
//   - [Histogram]: point distribution along one axis
//   - [ContractionFactor], [SimilarityDimension]: properties of a transform set
//   - [BoxDimension]: box-counting dimension estimate of a cloud
//   - [LyapunovExponent]: largest exponent of a continuous attractor
//
// # Convergence
//
// The chaos game only settles on an attractor when every enabled map is a
// contraction:
//
//	if !analysis.IsContractive(ts) {
//	    // the orbit may diverge
//	}
package analysis
