package dataprep

import (
	"fmt"
	"sort"

	"wineetl/pkg/dataset"
)

// CategoricalEncoder one-hot encodes every categorical column present at
// transform time. Levels are sorted and the first one is dropped, so a column
// with n levels becomes n-1 numeric 0/1 columns named "<column>_<level>",
// appended after the remaining columns. Missing values encode as all zeros.
// A dummy whose name is already taken fails with ErrColumnExists.
type CategoricalEncoder struct {
	Stateless
}

// NewCategoricalEncoder creates an encoder.
func NewCategoricalEncoder() *CategoricalEncoder { return &CategoricalEncoder{} }

func (e *CategoricalEncoder) Name() string { return "encode_categorical" }

// Transform replaces categorical columns with their dummy columns.
func (e *CategoricalEncoder) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	names := f.NamesOfKind(dataset.Categorical)
	if len(names) == 0 {
		return f, nil
	}
	out := f.Drop(names...)
	var err error
	for _, name := range names {
		col, _ := f.Column(name)
		for _, dummy := range oneHot(col) {
			if out.Has(dummy.Name) {
				return nil, fmt.Errorf("%s: dummy %q of %q: %w", e.Name(), dummy.Name, name, ErrColumnExists)
			}
			if out, err = out.With(dummy); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Levels returns the sorted distinct non-missing values of a categorical column.
func Levels(col dataset.Column) []string {
	seen := map[string]struct{}{}
	for i, v := range col.Strings {
		if col.IsMissing(i) {
			continue
		}
		seen[v] = struct{}{}
	}
	levels := make([]string, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels
}

func oneHot(col dataset.Column) []dataset.Column {
	levels := Levels(col)
	if len(levels) < 2 {
		return nil
	}
	kept := levels[1:]
	index := make(map[string]int, len(kept))
	out := make([]dataset.Column, len(kept))
	for j, level := range kept {
		index[level] = j
		out[j] = dataset.NewNumeric(col.Name+"_"+level, make([]float64, len(col.Strings)))
	}
	for i, v := range col.Strings {
		if j, ok := index[v]; ok {
			out[j].Floats[i] = 1
		}
	}
	return out
}
