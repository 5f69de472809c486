package dataset

import (
	"math"
	"time"
)

// Kind is the semantic type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Temporal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Temporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Column is a named, homogeneous sequence of values.
// Only the slice matching Kind is populated. Missing values are NaN for
// numeric columns, "" for categorical columns and the zero time for temporal ones.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Times   []time.Time
}

// NewNumeric builds a numeric column.
func NewNumeric(name string, values []float64) Column {
	return Column{Name: name, Kind: Numeric, Floats: values}
}

// NewCategorical builds a categorical column.
func NewCategorical(name string, values []string) Column {
	return Column{Name: name, Kind: Categorical, Strings: values}
}

// NewTemporal builds a temporal column.
func NewTemporal(name string, values []time.Time) Column {
	return Column{Name: name, Kind: Temporal, Times: values}
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	switch c.Kind {
	case Numeric:
		return len(c.Floats)
	case Categorical:
		return len(c.Strings)
	case Temporal:
		return len(c.Times)
	}
	return 0
}

// IsMissing reports whether row i holds a missing value.
func (c Column) IsMissing(i int) bool {
	switch c.Kind {
	case Numeric:
		return math.IsNaN(c.Floats[i])
	case Categorical:
		return c.Strings[i] == ""
	case Temporal:
		return c.Times[i].IsZero()
	}
	return true
}

// MissingCount counts missing values.
func (c Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values. It returns nil for
// non-numeric columns.
func (c Column) Present() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Key returns a printable representation of row i, used for hashing rows.
func (c Column) Key(i int) string {
	switch c.Kind {
	case Numeric:
		if math.IsNaN(c.Floats[i]) {
			return "NaN"
		}
		return formatFloat(c.Floats[i])
	case Categorical:
		return c.Strings[i]
	case Temporal:
		if c.Times[i].IsZero() {
			return ""
		}
		return c.Times[i].UTC().Format(time.RFC3339Nano)
	}
	return ""
}

// Renamed returns a copy of the column header with a new name. Values are shared.
func (c Column) Renamed(name string) Column {
	c.Name = name
	return c
}

// take returns a new column holding only rows where keep is true.
func (c Column) take(keep []bool, n int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case Numeric:
		out.Floats = make([]float64, 0, n)
		for i, v := range c.Floats {
			if keep[i] {
				out.Floats = append(out.Floats, v)
			}
		}
	case Categorical:
		out.Strings = make([]string, 0, n)
		for i, v := range c.Strings {
			if keep[i] {
				out.Strings = append(out.Strings, v)
			}
		}
	case Temporal:
		out.Times = make([]time.Time, 0, n)
		for i, v := range c.Times {
			if keep[i] {
				out.Times = append(out.Times, v)
			}
		}
	}
	return out
}

// clone deep-copies the column values.
func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	if c.Times != nil {
		out.Times = append([]time.Time(nil), c.Times...)
	}
	return out
}
