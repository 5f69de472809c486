package validation

// Report collects the results of every gate evaluated during a run.
// Gates that were not reached are nil.
type Report struct {
	RowCount        *RowCountResult        `json:"row_count,omitempty"`
	RequiredColumns *RequiredColumnsResult `json:"required_columns,omitempty"`
	Ranges          map[string]ColumnRange `json:"ranges,omitempty"`
	NumericRanges   *NumericRangeResult    `json:"numeric_ranges,omitempty"`
	// RangeError is the message of a tolerated numeric-range failure.
	RangeError string `json:"range_error,omitempty"`
}

// Valid reports whether every evaluated gate passed.
func (r Report) Valid() bool {
	if r.RowCount != nil && !r.RowCount.Valid {
		return false
	}
	if r.RequiredColumns != nil && !r.RequiredColumns.Valid {
		return false
	}
	if r.NumericRanges != nil && !r.NumericRanges.Valid {
		return false
	}
	return true
}
