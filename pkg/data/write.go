package data

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"wineetl/pkg/dataset"
)

// Format is an on-disk table encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatParquet
)

func (f Format) String() string {
	if f == FormatParquet {
		return "parquet"
	}
	return "csv"
}

// ContentType is the MIME type used when the encoding is uploaded.
func (f Format) ContentType() string {
	if f == FormatParquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv"
}

// FormatOf picks the format from a file name. Anything other than
// .parquet or .pq is CSV.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".parquet", ".pq":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// WriteCSV writes f with a header row. Missing values are written as empty
// cells and timestamps as RFC 3339 text.
func WriteCSV(w io.Writer, f *dataset.Frame) error {
	rec := ToRecord(memory.NewGoAllocator(), timesAsText(f))
	defer rec.Release()

	cw := csv.NewWriter(w, rec.Schema(), csv.WithHeader(true), csv.WithNullWriter(""))
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteParquet writes f as a snappy-compressed parquet file.
func WriteParquet(w io.Writer, f *dataset.Frame) error {
	rec := ToRecord(memory.NewGoAllocator(), f)
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	pw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := pw.Write(rec); err != nil {
		pw.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	return pw.Close()
}

// Encode writes f in the given format.
func Encode(w io.Writer, f *dataset.Frame, format Format) error {
	if format == FormatParquet {
		return WriteParquet(w, f)
	}
	return WriteCSV(w, f)
}

// WriteFile writes f to path, creating parent directories. The format follows
// the extension. The file is written to a temporary name first and renamed
// into place.
func WriteFile(path string, f *dataset.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f, FormatOf(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func timesAsText(f *dataset.Frame) *dataset.Frame {
	out := f
	for _, name := range f.NamesOfKind(dataset.Temporal) {
		c, _ := f.Column(name)
		text := make([]string, c.Len())
		for i := range text {
			text[i] = c.Key(i)
		}
		out, _ = out.With(dataset.NewCategorical(name, text))
	}
	return out
}
