package validation

import (
	"fmt"
	"strings"

	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// RowCountResult is the outcome of CheckRowCount.
type RowCountResult struct {
	Valid   bool `json:"valid"`
	Rows    int  `json:"rows"`
	MinRows int  `json:"min_rows"`
}

// RequiredColumnsResult is the outcome of CheckRequiredColumns.
type RequiredColumnsResult struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing"`
}

// Violations counts values outside a column's range.
type Violations struct {
	Below int `json:"below"`
	Above int `json:"above"`
}

// NumericRangeResult is the outcome of CheckNumericRanges.
// PerColumn only lists columns with at least one violation.
type NumericRangeResult struct {
	Valid           bool                  `json:"valid"`
	TotalViolations int                   `json:"total_violations"`
	MaxAllowed      int                   `json:"max_allowed"`
	Strict          bool                  `json:"strict"`
	PerColumn       map[string]Violations `json:"per_column"`
}

// CheckRowCount fails when the frame has fewer than minRows rows.
func CheckRowCount(f *dataset.Frame, minRows int) RowCountResult {
	rows := f.NumRows()
	return RowCountResult{Valid: rows >= minRows, Rows: rows, MinRows: minRows}
}

// RequireRowCount is the hard-gate form of CheckRowCount.
func RequireRowCount(f *dataset.Frame, minRows int) (RowCountResult, error) {
	res := CheckRowCount(f, minRows)
	if !res.Valid {
		return res, &ValidationError{
			Check:   RowCountCheck,
			Message: fmt.Sprintf("row count %d is less than required minimum %d", res.Rows, res.MinRows),
			Details: res,
		}
	}
	return res, nil
}

// CheckRequiredColumns lists, in order, the required names absent from the frame.
func CheckRequiredColumns(f *dataset.Frame, required []string) RequiredColumnsResult {
	missing := []string{}
	for _, name := range required {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return RequiredColumnsResult{Valid: len(missing) == 0, Missing: missing}
}

// RequireColumns is the hard-gate form of CheckRequiredColumns.
func RequireColumns(f *dataset.Frame, required []string) (RequiredColumnsResult, error) {
	res := CheckRequiredColumns(f, required)
	if !res.Valid {
		return res, &ValidationError{
			Check:   RequiredColumnsCheck,
			Message: "missing required columns: " + strings.Join(res.Missing, ", "),
			Details: res,
		}
	}
	return res, nil
}

// CheckNumericRanges counts values strictly outside each column's range.
// Missing values are not counted, and ranged columns absent from the frame
// are ignored.
//
// The check passes while the total stays within maxAllowed. With strict set,
// any violation fails regardless of maxAllowed. A failing check returns the
// result together with a *ValidationError carrying it.
func CheckNumericRanges(f *dataset.Frame, ranges map[string]ColumnRange, maxAllowed int, strict bool) (NumericRangeResult, error) {
	res := NumericRangeResult{
		MaxAllowed: maxAllowed,
		Strict:     strict,
		PerColumn:  map[string]Violations{},
	}
	for name, r := range ranges {
		col, ok := f.Column(name)
		if !ok || col.Kind != dataset.Numeric {
			continue
		}
		below, above := stats.CountOutside(col.Floats, r.Low, r.High)
		if below+above == 0 {
			continue
		}
		res.PerColumn[name] = Violations{Below: below, Above: above}
		res.TotalViolations += below + above
	}

	res.Valid = res.TotalViolations <= maxAllowed
	if strict && res.TotalViolations > 0 {
		res.Valid = false
	}
	if res.Valid {
		return res, nil
	}

	msg := fmt.Sprintf("numeric violations exceeded limit: %d > %d", res.TotalViolations, maxAllowed)
	if strict {
		msg = fmt.Sprintf("numeric violations in strict mode: %d", res.TotalViolations)
	}
	return res, &ValidationError{Check: NumericRangesCheck, Message: msg, Details: res}
}
