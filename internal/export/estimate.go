package export

import "math"

// Average bytes per vertex assumed by the estimators. Text formats vary
// with coordinate magnitude, so these are approximations; the binary
// figures are exact.
const (
	plyHeaderEstimate = 150
	objHeaderEstimate = 100
	fbxHeaderEstimate = 500

	plyASCIIColor  = 33
	plyASCIIPlain  = 25
	plyBinaryColor = 15
	plyBinaryPlain = 12

	objColorLine = 45
	objPlainLine = 30
	objMeshRatio = 1.5
	objPointRate = 1.1

	fbxVertex    = 25
	fbxMeshRatio = 2.0
	fbxPointRate = 1.2
)

// EstimatePLYSize predicts the PLY size of n vertices.
func EstimatePLYSize(n int, enc Encoding, colors bool) int64 {
	per := plyASCIIPlain
	switch {
	case enc == Binary && colors:
		per = plyBinaryColor
	case enc == Binary:
		per = plyBinaryPlain
	case colors:
		per = plyASCIIColor
	}
	return plyHeaderEstimate + int64(n)*int64(per)
}

// EstimateLASSize returns the exact LAS size of n points. For LAZ it
// divides that by LAZCompressionRatio, rounding up.
func EstimateLASSize(n int, colors, laz bool) int64 {
	per := int64(lasRecordXYZ)
	if colors {
		per = lasRecordRGB
	}
	size := LASHeaderSize + int64(n)*per
	if laz {
		size = (size + LAZCompressionRatio - 1) / LAZCompressionRatio
	}
	return size
}

func EstimateOBJSize(n int, colors, mesh bool) int64 {
	per := float64(objPlainLine)
	if colors {
		per = objColorLine
	}
	factor := objPointRate
	if mesh {
		factor = objMeshRatio
	}
	return objHeaderEstimate + int64(math.Round(float64(n)*per*factor))
}

func EstimateFBXSize(n int, mesh bool) int64 {
	factor := fbxPointRate
	if mesh {
		factor = fbxMeshRatio
	}
	return fbxHeaderEstimate + int64(math.Round(float64(n)*fbxVertex*factor))
}

// Estimate dispatches on opts.Format. colors reports whether the source
// cloud carries colors; it is combined with opts.IncludeColors.
func Estimate(opts Options, n int, colors bool) (int64, error) {
	colors = colors && opts.IncludeColors
	switch opts.Format {
	case PLY:
		enc := opts.Encoding
		if enc == "" {
			enc = ASCII
		}
		return EstimatePLYSize(n, enc, colors), nil
	case LAS:
		return EstimateLASSize(n, colors, false), nil
	case LAZ:
		return EstimateLASSize(n, colors, true), nil
	case OBJ:
		return EstimateOBJSize(n, colors, opts.GenerateMesh), nil
	case FBX:
		return EstimateFBXSize(n, opts.GenerateMesh), nil
	}
	return 0, ErrUnknownFormat
}
