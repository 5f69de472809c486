package stats

import "math"

// MinMaxScale scales x to [0, 1] over its own non-NaN min and max.
// NaN stays NaN; a constant column scales to 0.
func MinMaxScale(x []float64) []float64 {
	out := make([]float64, len(x))
	min, max := MinMax(DropNaN(x))
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case max != min:
			out[i] = (v - min) / (max - min)
		default:
			out[i] = 0
		}
	}
	return out
}

// Standardize returns (x - mean) / std, leaving NaN untouched.
// A zero std is treated as 1.
func Standardize(x []float64, mean, std float64) []float64 {
	if std == 0 {
		std = 1
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}
