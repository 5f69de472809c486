package validation

import (
	"encoding/json"
	"math"

	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// ColumnRange is an inclusive acceptable range for a numeric column.
// Unbounded ends are represented by ±Inf.
type ColumnRange struct {
	Column string
	Low    float64
	High   float64
}

// Unbounded returns a range that accepts every value.
func Unbounded(column string) ColumnRange {
	return ColumnRange{Column: column, Low: math.Inf(-1), High: math.Inf(1)}
}

// Contains reports whether v lies within [Low, High]. NaN is never contained.
func (r ColumnRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// MarshalJSON encodes infinite bounds as null since JSON has no infinity.
func (r ColumnRange) MarshalJSON() ([]byte, error) {
	type bound = *float64
	finite := func(v float64) bound {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Column string `json:"column"`
		Low    bound  `json:"low"`
		High   bound  `json:"high"`
	}{r.Column, finite(r.Low), finite(r.High)})
}

// ComputeRanges derives per-column acceptable ranges from the interquartile
// spread of the reference frame: [Q1 - k*IQR, Q3 + k*IQR].
//
// k below zero is treated as zero. Missing values are dropped first. A column with no remaining values gets an
// unbounded range. Requested columns absent from the frame, or not numeric,
// are skipped.
func ComputeRanges(f *dataset.Frame, columns []string, k float64) map[string]ColumnRange {
	out := make(map[string]ColumnRange, len(columns))
	for _, name := range columns {
		col, ok := f.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		low, high := stats.IQRBounds(col.Floats, k)
		out[name] = ColumnRange{Column: name, Low: low, High: high}
	}
	return out
}
