package data

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"wineetl/pkg/dataset"
)

// NullValues are the CSV cells read as missing.
var NullValues = []string{"", "NA", "N/A", "NaN", "nan", "null"}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSV reads a headed CSV stream into a frame. Every column is read as
// text by the arrow reader and then typed: numeric when every present cell
// parses as a number, temporal when the name contains "date" and every
// present cell parses as a timestamp, categorical otherwise. A column with no
// present cells is numeric.
func ReadCSV(r io.Reader) (*dataset.Frame, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	header, err := stdcsv.NewReader(bytes.NewReader(raw)).Read()
	if errors.Is(err, io.EOF) {
		return dataset.New()
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: strings.TrimSpace(name), Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	rdr := csv.NewReader(bytes.NewReader(raw), schema,
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithNullReader(true, NullValues...),
		csv.WithAllocator(memory.NewGoAllocator()),
	)
	defer rdr.Release()

	cells := make([][]string, len(fields))
	for rdr.Next() {
		rec := rdr.Record()
		for i := range cells {
			cells[i] = append(cells[i], textColumn(rec.Column(i))...)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols := make([]dataset.Column, len(fields))
	for i, f := range fields {
		cols[i] = inferColumn(f.Name, cells[i])
	}
	return dataset.New(cols...)
}

func textColumn(a arrow.Array) []string {
	out := make([]string, a.Len())
	for i := range out {
		if !a.IsNull(i) {
			out[i] = strings.TrimSpace(a.ValueStr(i))
		}
	}
	return out
}

func inferColumn(name string, cells []string) dataset.Column {
	if floats, ok := parseFloats(cells); ok {
		return dataset.NewNumeric(name, floats)
	}
	if strings.Contains(strings.ToLower(name), "date") {
		if times, ok := parseTimes(cells); ok {
			return dataset.NewTemporal(name, times)
		}
	}
	return dataset.NewCategorical(name, cells)
}

func parseFloats(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseTimes(cells []string) ([]time.Time, bool) {
	out := make([]time.Time, len(cells))
	for i, s := range cells {
		if s == "" {
			continue
		}
		t, ok := parseTime(s)
		if !ok {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ReadParquet reads a whole parquet file into a frame.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*dataset.Frame, error) {
	pf, err := file.NewParquetReader(r)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	defer tbl.Release()
	return FromTable(tbl)
}

// ReadFile reads a CSV or parquet file, chosen by extension.
func ReadFile(ctx context.Context, path string) (*dataset.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch FormatOf(path) {
	case FormatParquet:
		return ReadParquet(ctx, f)
	default:
		return ReadCSV(f)
	}
}
