package stats

import (
	"math"
	"sort"
)

// DropNaN returns the non-NaN values of x in a new slice.
func DropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}

// Variance computes the population variance of a slice in a single pass.
func Variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	sum, sumSq := 0.0, 0.0
	for _, v := range x {
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	v := (sumSq / n) - (mean * mean)
	if v < 0 {
		// rounding on near-constant input
		return 0
	}
	return v
}

// Std computes the population standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		}
		if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	mid := n >> 1
	if n&1 == 0 {
		return (cp[mid-1] + cp[mid]) * 0.5
	}
	return cp[mid]
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear interpolation
// between the closest ranks, the estimator pandas and numpy use by default.
// It returns NaN for an empty slice.
func Quantile(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	return quantileSorted(cp, q)
}

// Quartiles returns Q1 and Q3 of x with a single sort.
func Quartiles(x []float64) (q1, q3 float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return quantileSorted(cp, 0.25), quantileSorted(cp, 0.75)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	rank := q * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
