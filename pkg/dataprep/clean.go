package dataprep

import "wineetl/pkg/dataset"

// DuplicateDropper removes exact duplicate rows, keeping the first occurrence.
type DuplicateDropper struct {
	Stateless
}

// NewDuplicateDropper creates a duplicate dropper.
func NewDuplicateDropper() *DuplicateDropper { return &DuplicateDropper{} }

func (d *DuplicateDropper) Name() string { return "drop_duplicates" }

// Transform drops every row whose values repeat an earlier row.
func (d *DuplicateDropper) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	seen := make(map[string]struct{}, f.NumRows())
	keep := make([]bool, f.NumRows())
	dup := false
	for i := range keep {
		key := f.RowKey(i)
		if _, ok := seen[key]; ok {
			dup = true
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}
	if !dup {
		return f, nil
	}
	return f.Filter(keep)
}
