package ifs

import "sort"

// Distribution holds cumulative weights over a transform slice.
// The last cumulative entry equals the total weight.
type Distribution struct {
	cumulative []float64
}

// NewDistribution builds the cumulative weights of ts in order. Callers
// pass the enabled subset; the enabled flag is not consulted here.
func NewDistribution(ts []Transform) Distribution {
	cum := make([]float64, len(ts))
	sum := 0.0
	for i, t := range ts {
		sum += t.Weight
		cum[i] = sum
	}
	return Distribution{cumulative: cum}
}

func (d Distribution) Len() int { return len(d.cumulative) }

func (d Distribution) Total() float64 {
	if len(d.cumulative) == 0 {
		return 0
	}
	return d.cumulative[len(d.cumulative)-1]
}

// Cumulative returns a copy of the cumulative weights.
func (d Distribution) Cumulative() []float64 {
	c := make([]float64, len(d.cumulative))
	copy(c, d.cumulative)
	return c
}

// Pick returns the first index whose cumulative weight is >= r. A zero
// total always selects index 0, and an r beyond the last entry (floating
// point drift) selects the last index. Pick returns -1 on an empty
// distribution.
func (d Distribution) Pick(r float64) int {
	n := len(d.cumulative)
	if n == 0 {
		return -1
	}
	if d.Total() <= 0 {
		return 0
	}
	i := sort.SearchFloat64s(d.cumulative, r)
	if i >= n {
		return n - 1
	}
	return i
}
