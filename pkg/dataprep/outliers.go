package dataprep

import (
	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// IQROutlierFilter drops rows whose value in any requested column falls
// outside [Q1 - K*IQR, Q3 + K*IQR].
//
// Bounds come from the frame being transformed, not a fitted reference.
// Columns are processed in the configured order and each column's bounds are
// computed over the rows that survived the previous columns, so reordering
// Columns can change the result. Bounds use the present values only, and a
// row whose value is missing fails the range test and is dropped.
type IQROutlierFilter struct {
	Stateless
	Columns []string
	K       float64
}

// NewIQROutlierFilter creates a filter over columns with tolerance k.
func NewIQROutlierFilter(k float64, columns ...string) *IQROutlierFilter {
	return &IQROutlierFilter{Columns: columns, K: k}
}

func (o *IQROutlierFilter) Name() string { return "remove_outliers_iqr" }

// Transform applies the sequential per-column filter.
func (o *IQROutlierFilter) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	out := f
	for _, name := range o.Columns {
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		low, high := stats.IQRBounds(col.Floats, o.K)
		keep := make([]bool, len(col.Floats))
		dropped := 0
		for i, v := range col.Floats {
			keep[i] = v >= low && v <= high
			if !keep[i] {
				dropped++
			}
		}
		if dropped == 0 {
			continue
		}
		var err error
		if out, err = out.Filter(keep); err != nil {
			return nil, err
		}
	}
	return out, nil
}
