package dataprep

import (
	"math"

	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// MedianImputer replaces missing numeric values with per-column medians
// learned from a reference frame.
type MedianImputer struct {
	Columns []string

	medians map[string]float64
	fitted  bool
}

// NewMedianImputer creates an imputer for the given columns.
func NewMedianImputer(columns ...string) *MedianImputer {
	return &MedianImputer{Columns: columns}
}

func (m *MedianImputer) Name() string { return "impute_median" }

// Fit stores the median of the non-missing values of every requested numeric
// column present in ref. A column with no values gets no median.
func (m *MedianImputer) Fit(ref *dataset.Frame) error {
	m.medians = make(map[string]float64, len(m.Columns))
	for _, name := range m.Columns {
		col, ok := ref.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		vals := col.Present()
		if len(vals) == 0 {
			continue
		}
		m.medians[name] = stats.Median(vals)
	}
	m.fitted = true
	return nil
}

// Medians returns a copy of the fitted medians.
func (m *MedianImputer) Medians() map[string]float64 {
	out := make(map[string]float64, len(m.medians))
	for k, v := range m.medians {
		out[k] = v
	}
	return out
}

// Transform fills missing values in columns that have a fitted median.
func (m *MedianImputer) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	if !m.fitted {
		return nil, notFitted(m.Name())
	}
	out := f
	// iterate Columns for a stable order
	for _, name := range m.Columns {
		median, ok := m.medians[name]
		if !ok {
			continue
		}
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		filled := make([]float64, len(col.Floats))
		for i, v := range col.Floats {
			if math.IsNaN(v) {
				v = median
			}
			filled[i] = v
		}
		var err error
		if out, err = out.With(dataset.NewNumeric(name, filled)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
