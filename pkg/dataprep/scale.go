package dataprep

import (
	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// StandardScaler standardizes numeric columns to zero mean and unit variance
// using means and standard deviations learned from the reference frame.
type StandardScaler struct {
	Columns []string

	Mean map[string]float64
	Std  map[string]float64
	fit  bool
}

// NewStandardScaler creates a scaler for the given columns.
func NewStandardScaler(columns ...string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

func (s *StandardScaler) Name() string { return "standard_scale" }

// Fit learns mean and std over the non-missing values of each column.
func (s *StandardScaler) Fit(ref *dataset.Frame) error {
	s.Mean = make(map[string]float64, len(s.Columns))
	s.Std = make(map[string]float64, len(s.Columns))
	for _, name := range s.Columns {
		col, ok := ref.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		vals := col.Present()
		if len(vals) == 0 {
			continue
		}
		s.Mean[name] = stats.Mean(vals)
		s.Std[name] = stats.Std(vals)
	}
	s.fit = true
	return nil
}

// Transform rescales every fitted column present in f.
func (s *StandardScaler) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	if !s.fit {
		return nil, notFitted(s.Name())
	}
	out := f
	for _, name := range s.Columns {
		mean, ok := s.Mean[name]
		if !ok {
			continue
		}
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		var err error
		scaled := stats.Standardize(col.Floats, mean, s.Std[name])
		if out, err = out.With(dataset.NewNumeric(name, scaled)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
