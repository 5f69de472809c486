package stats

import "math"

// IQRBounds returns [Q1 - k*IQR, Q3 + k*IQR] over the non-NaN values of x.
// With no usable values the bounds are unbounded on both ends. A negative k
// is treated as 0, so low <= high always holds.
func IQRBounds(x []float64, k float64) (low, high float64) {
	if k < 0 {
		k = 0
	}
	vals := DropNaN(x)
	if len(vals) == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	q1, q3 := Quartiles(vals)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// CountOutside counts non-NaN values strictly below low and strictly above high.
func CountOutside(x []float64, low, high float64) (below, above int) {
	for _, v := range x {
		switch {
		case math.IsNaN(v):
		case v < low:
			below++
		case v > high:
			above++
		}
	}
	return below, above
}
