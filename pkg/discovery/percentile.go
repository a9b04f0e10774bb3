package discovery

import (
	"math"
	"sort"
)

// Percentile computes the p-th percentile of values using linear
// interpolation between closest ranks. The same algorithm backs both the
// bottleneck emission threshold and the 90th-percentile severity boundary;
// mixing percentile definitions would shift classification at boundary
// values.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)

	if p <= 0 {
		return s[0]
	}
	if p >= 100 {
		return s[len(s)-1]
	}

	pos := p / 100 * float64(len(s)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(s) {
		return s[lo]
	}
	return s[lo] + frac*(s[lo+1]-s[lo])
}

// round1 rounds to 1 decimal place, for presentation values.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// round2 rounds to 2 decimal places, for presentation values.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
