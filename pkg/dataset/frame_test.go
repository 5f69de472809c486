package dataset

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewRejectsBadShapes(t *testing.T) {
	_, err := New(NewNumeric("a", []float64{1}), NewNumeric("a", []float64{2}))
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("duplicate names: err = %v", err)
	}
	_, err = New(NewNumeric("a", []float64{1, 2}), NewCategorical("b", []string{"x"}))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("unequal lengths: err = %v", err)
	}
}

func TestWithIsCopyOnWrite(t *testing.T) {
	f := MustNew(NewNumeric("a", []float64{1, 2}))
	g, err := f.With(NewNumeric("b", []float64{3, 4}))
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if f.Has("b") {
		t.Fatalf("receiver gained column b")
	}
	if got := g.Names(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("names = %v", got)
	}

	h, err := g.With(NewNumeric("a", []float64{9, 9}))
	if err != nil {
		t.Fatalf("With replace: %v", err)
	}
	if h.Names()[0] != "a" {
		t.Fatalf("replace should keep position, names = %v", h.Names())
	}
	a, _ := f.Column("a")
	if a.Floats[0] != 1 {
		t.Fatalf("original column modified: %v", a.Floats)
	}
	if _, err := f.With(NewNumeric("c", []float64{1})); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short column: err = %v", err)
	}
}

func TestFilterAndDrop(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f := MustNew(
		NewNumeric("a", []float64{1, 2, 3}),
		NewCategorical("b", []string{"x", "y", "z"}),
		NewTemporal("d", []time.Time{ts, {}, ts}),
	)
	g, err := f.Filter([]bool{true, false, true})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if g.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", g.NumRows())
	}
	b, _ := g.Column("b")
	if b.Strings[0] != "x" || b.Strings[1] != "z" {
		t.Fatalf("b = %v", b.Strings)
	}
	if f.NumRows() != 3 {
		t.Fatalf("receiver modified")
	}

	d := f.Drop("a", "missing")
	if d.Has("a") || d.NumCols() != 2 || d.NumRows() != 3 {
		t.Fatalf("Drop: names=%v rows=%d", d.Names(), d.NumRows())
	}
}

func TestMissingValues(t *testing.T) {
	c := NewNumeric("a", []float64{1, math.NaN(), 3})
	if c.MissingCount() != 1 || !c.IsMissing(1) {
		t.Fatalf("missing detection failed")
	}
	if p := c.Present(); len(p) != 2 {
		t.Fatalf("Present = %v", p)
	}
	s := NewCategorical("s", []string{"", "x"})
	if !s.IsMissing(0) || s.IsMissing(1) {
		t.Fatalf("categorical missing detection failed")
	}
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	f := MustNew(NewNumeric("a", []float64{math.NaN(), 1}))
	if !f.Equal(f.Clone()) {
		t.Fatalf("clone should be equal")
	}
	g := MustNew(NewNumeric("a", []float64{math.NaN(), 2}))
	if f.Equal(g) {
		t.Fatalf("different values reported equal")
	}
}

func TestNamesOfKind(t *testing.T) {
	f := MustNew(
		NewNumeric("a", []float64{1}),
		NewCategorical("b", []string{"x"}),
		NewNumeric("c", []float64{2}),
	)
	got := f.NamesOfKind(Numeric)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("NamesOfKind = %v", got)
	}
}
