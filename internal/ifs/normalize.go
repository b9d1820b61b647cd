package ifs

// TotalWeight sums the weights of enabled transforms.
func TotalWeight(ts []Transform) float64 {
	sum := 0.0
	for _, t := range ts {
		if t.Enabled {
			sum += t.Weight
		}
	}
	return sum
}

// Normalize returns a new slice where enabled weights sum to 1 and disabled
// weights are 0. If the enabled weights sum to 0 the input is returned as a
// copy, unmodified. The input is never mutated.
func Normalize(ts []Transform) []Transform {
	out := Clone(ts)
	total := TotalWeight(ts)
	if total <= 0 {
		return out
	}
	for i := range out {
		if out[i].Enabled {
			out[i].Weight /= total
		} else {
			out[i].Weight = 0
		}
	}
	return out
}
