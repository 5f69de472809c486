package dataprep

import (
	"fmt"

	"wineetl/pkg/dataset"
)

// PHBreaks and PHLabels describe the pH scale: (0,3] very_acidic,
// (3,3.5] acidic, (3.5,4] neutral, (4,10] basic.
var (
	PHBreaks = []float64{0, 3, 3.5, 4, 10}
	PHLabels = []string{"very_acidic", "acidic", "neutral", "basic"}
)

// BucketDiscretizer bins a numeric column into labelled right-closed
// intervals (Breaks[i], Breaks[i+1]]. Values outside every interval, and
// missing values, get a missing label.
type BucketDiscretizer struct {
	Stateless
	Source string
	Target string
	Breaks []float64
	Labels []string
}

// NewPHBucketizer returns the discretizer for the pH column.
func NewPHBucketizer() *BucketDiscretizer {
	return &BucketDiscretizer{Source: "pH", Target: "pH_bucket", Breaks: PHBreaks, Labels: PHLabels}
}

func (b *BucketDiscretizer) Name() string { return "ph_bucket" }

// Transform appends the bucket column when the source column is present.
func (b *BucketDiscretizer) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	if len(b.Breaks) != len(b.Labels)+1 {
		return nil, fmt.Errorf("%s: %d breaks need %d labels, got %d", b.Name(), len(b.Breaks), len(b.Breaks)-1, len(b.Labels))
	}
	src, ok := numeric(f, b.Source)
	if !ok {
		return f, nil
	}
	out := make([]string, len(src))
	for i, v := range src {
		out[i] = b.bucket(v)
	}
	return f.With(dataset.NewCategorical(b.Target, out))
}

func (b *BucketDiscretizer) bucket(v float64) string {
	// NaN fails every comparison and falls through
	for i := 0; i < len(b.Labels); i++ {
		if v > b.Breaks[i] && v <= b.Breaks[i+1] {
			return b.Labels[i]
		}
	}
	return ""
}
