package dataprep

import (
	"math"

	"wineetl/pkg/dataset"
	"wineetl/pkg/stats"
)

// RatioEpsilon is added to the ratio denominator to avoid division by zero.
const RatioEpsilon = 1e-6

// Quality label thresholds.
const (
	LowQualityMax  = 4.0
	HighQualityMin = 7.0
)

// FeatureDeriver adds derived columns when their sources are present:
//
//   - RatioName = Numerator / (Denominator + RatioEpsilon)
//   - NormalizedName = NormalizeSource min-max scaled over the current frame
//   - LabelName = "low" (<= 4), "high" (>= 7) or "medium" from LabelSource
//
// The normalisation uses the min and max of whatever rows are being
// transformed, so the same value can scale differently between batches.
type FeatureDeriver struct {
	Stateless

	Numerator   string
	Denominator string
	RatioName   string

	NormalizeSource string
	NormalizedName  string

	LabelSource string
	LabelName   string
}

// NewFeatureDeriver returns a deriver configured for the wine quality columns.
func NewFeatureDeriver() *FeatureDeriver {
	return &FeatureDeriver{
		Numerator:       "fixed acidity",
		Denominator:     "volatile acidity",
		RatioName:       "acidity_ratio",
		NormalizeSource: "alcohol",
		NormalizedName:  "alcohol_norm",
		LabelSource:     "quality",
		LabelName:       "quality_label",
	}
}

func (d *FeatureDeriver) Name() string { return "feature_engineering" }

// Transform appends the derived columns.
func (d *FeatureDeriver) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	out := f
	var err error

	num, okNum := numeric(out, d.Numerator)
	den, okDen := numeric(out, d.Denominator)
	if okNum && okDen {
		ratio := make([]float64, len(num))
		for i := range num {
			ratio[i] = num[i] / (den[i] + RatioEpsilon)
		}
		if out, err = out.With(dataset.NewNumeric(d.RatioName, ratio)); err != nil {
			return nil, err
		}
	}

	if src, ok := numeric(out, d.NormalizeSource); ok {
		if out, err = out.With(dataset.NewNumeric(d.NormalizedName, stats.MinMaxScale(src))); err != nil {
			return nil, err
		}
	}

	if src, ok := numeric(out, d.LabelSource); ok {
		labels := make([]string, len(src))
		for i, q := range src {
			labels[i] = QualityLabel(q)
		}
		if out, err = out.With(dataset.NewCategorical(d.LabelName, labels)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// QualityLabel maps a quality score to its three-level label.
// A missing score yields a missing label.
func QualityLabel(q float64) string {
	switch {
	case math.IsNaN(q):
		return ""
	case q <= LowQualityMax:
		return "low"
	case q >= HighQualityMin:
		return "high"
	default:
		return "medium"
	}
}

func numeric(f *dataset.Frame, name string) ([]float64, bool) {
	if name == "" {
		return nil, false
	}
	col, ok := f.Column(name)
	if !ok || col.Kind != dataset.Numeric {
		return nil, false
	}
	return col.Floats, true
}
