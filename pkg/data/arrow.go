package data

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"wineetl/pkg/dataset"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// ToRecord converts f into a single arrow record. Missing values become
// nulls. The caller owns the returned record and must Release it.
func ToRecord(mem memory.Allocator, f *dataset.Frame) arrow.Record {
	cols := f.Columns()
	fields := make([]arrow.Field, len(cols))
	arrays := make([]arrow.Array, len(cols))
	for i, c := range cols {
		fields[i], arrays[i] = toArray(mem, c)
	}
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()
	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrays, int64(f.NumRows()))
}

func toArray(mem memory.Allocator, c dataset.Column) (arrow.Field, arrow.Array) {
	switch c.Kind {
	case dataset.Temporal:
		b := array.NewTimestampBuilder(mem, timestampType)
		defer b.Release()
		for _, t := range c.Times {
			if t.IsZero() {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(t.UnixMicro()))
		}
		return arrow.Field{Name: c.Name, Type: timestampType, Nullable: true}, b.NewArray()
	case dataset.Categorical:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, s := range c.Strings {
			if s == "" {
				b.AppendNull()
				continue
			}
			b.Append(s)
		}
		return arrow.Field{Name: c.Name, Type: arrow.BinaryTypes.String, Nullable: true}, b.NewArray()
	default:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range c.Floats {
			if math.IsNaN(v) {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
		return arrow.Field{Name: c.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, b.NewArray()
	}
}

// FromRecord converts an arrow record into a frame. Integer and floating
// point columns become numeric, strings and booleans categorical, dates and
// timestamps temporal.
func FromRecord(rec arrow.Record) (*dataset.Frame, error) {
	cols := make([]dataset.Column, rec.NumCols())
	for i := range cols {
		c, err := fromChunks(rec.ColumnName(i), []arrow.Array{rec.Column(i)})
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return newFrame(cols, int(rec.NumRows()))
}

// FromTable converts an arrow table, concatenating chunks per column.
func FromTable(tbl arrow.Table) (*dataset.Frame, error) {
	cols := make([]dataset.Column, tbl.NumCols())
	for i := range cols {
		col := tbl.Column(i)
		c, err := fromChunks(col.Name(), col.Data().Chunks())
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return newFrame(cols, int(tbl.NumRows()))
}

// newFrame keeps the row count of a record that has rows but no columns.
func newFrame(cols []dataset.Column, rows int) (*dataset.Frame, error) {
	if len(cols) == 0 && rows > 0 {
		placeholder := dataset.NewNumeric("_", make([]float64, rows))
		f, err := dataset.New(placeholder)
		if err != nil {
			return nil, err
		}
		return f.Drop("_"), nil
	}
	return dataset.New(cols...)
}

func fromChunks(name string, chunks []arrow.Array) (dataset.Column, error) {
	if len(chunks) == 0 {
		return dataset.NewNumeric(name, nil), nil
	}
	var (
		floats  []float64
		strs    []string
		times   []time.Time
		kind    dataset.Kind
		unknown arrow.DataType
	)
	for _, chunk := range chunks {
		n := chunk.Len()
		switch a := chunk.(type) {
		case *array.Float64:
			kind = dataset.Numeric
			for i := 0; i < n; i++ {
				floats = append(floats, numericAt(a.IsNull(i), a.Value(i)))
			}
		case *array.Float32:
			kind = dataset.Numeric
			for i := 0; i < n; i++ {
				floats = append(floats, numericAt(a.IsNull(i), float64(a.Value(i))))
			}
		case *array.Int64:
			kind = dataset.Numeric
			for i := 0; i < n; i++ {
				floats = append(floats, numericAt(a.IsNull(i), float64(a.Value(i))))
			}
		case *array.Int32:
			kind = dataset.Numeric
			for i := 0; i < n; i++ {
				floats = append(floats, numericAt(a.IsNull(i), float64(a.Value(i))))
			}
		case *array.String:
			kind = dataset.Categorical
			for i := 0; i < n; i++ {
				strs = append(strs, stringAt(a.IsNull(i), a.Value(i)))
			}
		case *array.LargeString:
			kind = dataset.Categorical
			for i := 0; i < n; i++ {
				strs = append(strs, stringAt(a.IsNull(i), a.Value(i)))
			}
		case *array.Boolean:
			kind = dataset.Categorical
			for i := 0; i < n; i++ {
				strs = append(strs, stringAt(a.IsNull(i), fmt.Sprint(a.Value(i))))
			}
		case *array.Timestamp:
			kind = dataset.Temporal
			unit := a.DataType().(*arrow.TimestampType).Unit
			for i := 0; i < n; i++ {
				if a.IsNull(i) {
					times = append(times, time.Time{})
					continue
				}
				times = append(times, a.Value(i).ToTime(unit))
			}
		case *array.Date32:
			kind = dataset.Temporal
			for i := 0; i < n; i++ {
				if a.IsNull(i) {
					times = append(times, time.Time{})
					continue
				}
				times = append(times, a.Value(i).ToTime())
			}
		default:
			unknown = chunk.DataType()
		}
		if unknown != nil {
			return dataset.Column{}, fmt.Errorf("column %q: unsupported arrow type %s", name, unknown)
		}
	}
	switch kind {
	case dataset.Categorical:
		return dataset.NewCategorical(name, strs), nil
	case dataset.Temporal:
		return dataset.NewTemporal(name, times), nil
	default:
		return dataset.NewNumeric(name, floats), nil
	}
}

func numericAt(null bool, v float64) float64 {
	if null {
		return math.NaN()
	}
	return v
}

func stringAt(null bool, v string) string {
	if null {
		return ""
	}
	return v
}
