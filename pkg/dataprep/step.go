// Package dataprep holds the transformation steps of the cleaning pipeline.
//
// Every step exposes Fit and Transform. Stateless steps embed Stateless,
// whose Fit does nothing; stateful steps learn their parameters in Fit and
// return ErrNotFitted from Transform until Fit has succeeded. Transform never
// modifies its input frame.
package dataprep

import (
	"errors"
	"fmt"

	"wineetl/pkg/dataset"
)

// ErrNotFitted is returned by a stateful step whose Transform runs before Fit.
var ErrNotFitted = errors.New("dataprep: transform called before fit")

// ErrColumnExists is returned when a derived column would replace an input column.
var ErrColumnExists = errors.New("dataprep: column already exists")

// Stateless provides the no-op Fit for steps with nothing to learn.
type Stateless struct{}

// Fit does nothing.
func (Stateless) Fit(*dataset.Frame) error { return nil }

func notFitted(step string) error {
	return fmt.Errorf("%s: %w", step, ErrNotFitted)
}
