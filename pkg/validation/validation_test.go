package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"wineetl/pkg/dataset"
)

func TestCheckRowCount(t *testing.T) {
	f := dataset.MustNew(dataset.NewNumeric("a", []float64{1, 2, 3}))
	for minRows := 0; minRows <= 3; minRows++ {
		res := CheckRowCount(f, minRows)
		if !res.Valid || res.Rows != 3 || res.MinRows != minRows {
			t.Fatalf("CheckRowCount(%d) = %+v", minRows, res)
		}
		if _, err := RequireRowCount(f, minRows); err != nil {
			t.Fatalf("RequireRowCount(%d): %v", minRows, err)
		}
	}
	if res := CheckRowCount(f, 4); res.Valid {
		t.Fatalf("CheckRowCount(4) should fail: %+v", res)
	}
}

func TestRequireRowCountEmptyFrame(t *testing.T) {
	f := dataset.MustNew(dataset.NewNumeric("a", nil))
	res := CheckRowCount(f, 1)
	if res.Valid {
		t.Fatalf("empty frame should fail: %+v", res)
	}
	_, err := RequireRowCount(f, 1)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("RequireRowCount error = %v, want *ValidationError", err)
	}
	if ve.Check != RowCountCheck {
		t.Fatalf("check = %q", ve.Check)
	}
	if d, ok := ve.Details.(RowCountResult); !ok || d.Rows != 0 {
		t.Fatalf("details = %#v", ve.Details)
	}
}

func TestCheckRequiredColumns(t *testing.T) {
	f := dataset.MustNew(
		dataset.NewNumeric("quality", []float64{5}),
		dataset.NewNumeric("alcohol", []float64{10}),
	)
	tests := []struct {
		name     string
		required []string
		missing  []string
	}{
		{"all present", []string{"quality", "alcohol"}, []string{}},
		{"none required", nil, []string{}},
		{"order preserved", []string{"pH", "quality", "density", "alcohol"}, []string{"pH", "density"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckRequiredColumns(f, tt.required)
			if !reflect.DeepEqual(res.Missing, tt.missing) {
				t.Fatalf("missing = %v, want %v", res.Missing, tt.missing)
			}
			if res.Valid != (len(tt.missing) == 0) {
				t.Fatalf("valid = %v", res.Valid)
			}
		})
	}

	_, err := RequireColumns(f, []string{"pH"})
	if ve, ok := AsValidationError(err); !ok || !strings.Contains(ve.Error(), "pH") {
		t.Fatalf("RequireColumns error = %v", err)
	}
}

func TestComputeRanges(t *testing.T) {
	f := dataset.MustNew(
		dataset.NewNumeric("a", []float64{1, 2, 3, 4}),
		dataset.NewNumeric("empty", []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}),
		dataset.NewCategorical("type", []string{"red", "red", "white", "white"}),
	)
	got := ComputeRanges(f, []string{"a", "empty", "type", "absent"}, 1.5)
	if len(got) != 2 {
		t.Fatalf("ranges = %v, want a and empty only", got)
	}
	if r := got["a"]; r.Low != -0.5 || r.High != 5.5 || r.Column != "a" {
		t.Fatalf("a range = %+v", r)
	}
	e := got["empty"]
	if !math.IsInf(e.Low, -1) || !math.IsInf(e.High, 1) {
		t.Fatalf("empty range = %+v", e)
	}
	for _, v := range []float64{-1e300, 0, 1e300} {
		if !e.Contains(v) {
			t.Fatalf("unbounded range rejected %v", v)
		}
	}
}

func TestComputeRangesNegativeKKeepsOrder(t *testing.T) {
	f := dataset.MustNew(dataset.NewNumeric("a", []float64{1, 2, 3, 4}))
	r := ComputeRanges(f, []string{"a"}, -1)["a"]
	if r.Low > r.High {
		t.Fatalf("range = %+v, want low <= high", r)
	}
	if !r.Contains(2.5) || r.Contains(1) {
		t.Fatalf("range = %+v, want [Q1, Q3]", r)
	}
}

func TestComputeRangesPassesUnboundedColumnValidation(t *testing.T) {
	ref := dataset.MustNew(dataset.NewNumeric("a", []float64{math.NaN()}))
	ranges := ComputeRanges(ref, []string{"a"}, 1.5)
	f := dataset.MustNew(dataset.NewNumeric("a", []float64{-1e9, 0, 1e9}))
	res, err := CheckNumericRanges(f, ranges, 0, true)
	if err != nil || !res.Valid || res.TotalViolations != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestCheckNumericRangesOverBudget(t *testing.T) {
	f := dataset.MustNew(dataset.NewNumeric("alcohol", []float64{1000}))
	ranges := map[string]ColumnRange{"alcohol": {Column: "alcohol", Low: 0, High: 50}}

	res, err := CheckNumericRanges(f, ranges, 0, false)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	details := ve.Details.(NumericRangeResult)
	if details.TotalViolations != 1 || res.TotalViolations != 1 || res.Valid {
		t.Fatalf("res = %+v", res)
	}
	if v := res.PerColumn["alcohol"]; v.Above != 1 || v.Below != 0 {
		t.Fatalf("per column = %+v", v)
	}
}

func TestCheckNumericRangesBudgetAndStrict(t *testing.T) {
	f := dataset.MustNew(
		dataset.NewNumeric("a", []float64{-1, 5, 11, math.NaN()}),
		dataset.NewNumeric("b", []float64{1, 2, 3, 4}),
	)
	ranges := map[string]ColumnRange{
		"a":      {Column: "a", Low: 0, High: 10},
		"b":      {Column: "b", Low: 0, High: 10},
		"absent": {Column: "absent", Low: 0, High: 1},
	}

	res, err := CheckNumericRanges(f, ranges, 2, false)
	if err != nil || !res.Valid {
		t.Fatalf("within budget: res=%+v err=%v", res, err)
	}
	if res.TotalViolations != 2 {
		t.Fatalf("total = %d, want 2", res.TotalViolations)
	}
	if _, listed := res.PerColumn["b"]; listed {
		t.Fatalf("clean column listed: %v", res.PerColumn)
	}
	if v := res.PerColumn["a"]; v.Below != 1 || v.Above != 1 {
		t.Fatalf("a = %+v", v)
	}

	res, err = CheckNumericRanges(f, ranges, 100, true)
	if err == nil || res.Valid {
		t.Fatalf("strict mode should fail despite budget: res=%+v", res)
	}

	clean := map[string]ColumnRange{"b": {Column: "b", Low: 0, High: 10}}
	if _, err := CheckNumericRanges(f, clean, 0, true); err != nil {
		t.Fatalf("strict with no violations: %v", err)
	}
}

func TestReportJSONEncodesInfiniteBoundsAsNull(t *testing.T) {
	rep := Report{Ranges: map[string]ColumnRange{"a": Unbounded("a")}}
	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"ranges":{"a":{"column":"a","low":null,"high":null}}}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
	if !rep.Valid() {
		t.Fatalf("empty report should be valid")
	}
}
