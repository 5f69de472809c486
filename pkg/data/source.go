package data

import (
	"context"

	"wineetl/pkg/dataset"
)

// FileSource extracts the raw dataset from a local CSV or parquet file.
type FileSource struct {
	Path string
}

func (s FileSource) Extract(ctx context.Context) (*dataset.Frame, error) {
	return ReadFile(ctx, s.Path)
}

// FileSink loads the processed dataset into a local file.
type FileSink struct {
	Path string
}

func (s FileSink) Load(_ context.Context, f *dataset.Frame) error {
	return WriteFile(s.Path, f)
}

// MultiSink loads into every sink in order and stops at the first error.
type MultiSink []interface {
	Load(ctx context.Context, f *dataset.Frame) error
}

func (m MultiSink) Load(ctx context.Context, f *dataset.Frame) error {
	for _, s := range m {
		if err := s.Load(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
