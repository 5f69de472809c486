package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDuplicateColumn = errors.New("dataset: duplicate column name")
	ErrLengthMismatch  = errors.New("dataset: columns have different lengths")
)

// Frame is an ordered, named collection of equal-length columns.
// Frames are treated as immutable: every operation returns a new Frame and
// never writes into the receiver's column slices.
type Frame struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Frame, checking that names are unique and lengths agree.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.Name, c.Len(), f.rows)
		}
		f.index[c.Name] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. The returned slice is a copy but the
// column values are shared and must not be modified.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.cols...)
}

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.cols[i], true
}

// NamesOfKind returns the names of all columns of the given kind, in order.
func (f *Frame) NamesOfKind(k Kind) []string {
	var out []string
	for _, c := range f.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// With returns a new Frame where col replaces the column of the same name,
// or is appended when no such column exists.
func (f *Frame) With(col Column) (*Frame, error) {
	if len(f.cols) > 0 && col.Len() != f.rows {
		return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, col.Name, col.Len(), f.rows)
	}
	cols := f.Columns()
	if i, ok := f.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Drop returns a new Frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	cols := make([]Column, 0, len(f.cols))
	for _, c := range f.cols {
		if !skip[c.Name] {
			cols = append(cols, c)
		}
	}
	out, _ := New(cols...)
	if len(cols) == 0 {
		out.rows = f.rows
	}
	return out
}

// Filter returns a new Frame holding only the rows where keep is true.
func (f *Frame) Filter(keep []bool) (*Frame, error) {
	if len(keep) != f.rows {
		return nil, fmt.Errorf("%w: mask has %d rows, want %d", ErrLengthMismatch, len(keep), f.rows)
	}
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(keep, n)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = n
	return out, nil
}

// Clone deep-copies the frame.
func (f *Frame) Clone() *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.clone()
	}
	out, _ := New(cols...)
	out.rows = f.rows
	return out
}

// RowKey joins the printable values of row i, for duplicate detection.
func (f *Frame) RowKey(i int) string {
	parts := make([]string, len(f.cols))
	for j, c := range f.cols {
		parts[j] = c.Key(i)
	}
	return strings.Join(parts, "\x1f")
}

// Schema describes the structure of the frame.
func (f *Frame) Schema() Schema {
	s := Schema{Names: f.Names(), Kinds: make([]Kind, len(f.cols))}
	for i, c := range f.cols {
		s.Kinds[i] = c.Kind
	}
	return s
}

// Equal reports whether two frames hold the same columns and values.
// NaN compares equal to NaN.
func (f *Frame) Equal(g *Frame) bool {
	if f.rows != g.rows || len(f.cols) != len(g.cols) {
		return false
	}
	for i, c := range f.cols {
		d := g.cols[i]
		if c.Name != d.Name || c.Kind != d.Kind {
			return false
		}
		for r := 0; r < f.rows; r++ {
			if c.Kind == Numeric {
				a, b := c.Floats[r], d.Floats[r]
				if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
					return false
				}
				continue
			}
			if c.Key(r) != d.Key(r) {
				return false
			}
		}
	}
	return true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
