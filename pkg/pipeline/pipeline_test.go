package pipeline

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"wineetl/pkg/config"
	"wineetl/pkg/dataprep"
	"wineetl/pkg/dataset"
)

type countingStep struct {
	dataprep.Stateless
	name  string
	calls *[]string
}

func (c countingStep) Name() string { return c.name }

func (c countingStep) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	*c.calls = append(*c.calls, c.name)
	return f, nil
}

func TestTransformAppliesStepsInOrder(t *testing.T) {
	var calls []string
	p := NewPipeline(countingStep{name: "a", calls: &calls}, countingStep{name: "b", calls: &calls})
	f := dataset.MustNew(dataset.NewNumeric("x", []float64{1}))
	if _, err := p.FitTransform(f); err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"a", "b"}) {
		t.Fatalf("calls = %v", calls)
	}
}

func TestFitUsesOriginalReference(t *testing.T) {
	ref := dataset.MustNew(dataset.NewNumeric("a", []float64{1, 2, 3, 1000, math.NaN()}))
	imp := dataprep.NewMedianImputer("a")
	p := NewPipeline(dataprep.NewIQROutlierFilter(1.5, "a"), imp)
	if err := p.Fit(ref); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// fitted on the unfiltered reference, so 1000 still counts
	if got := imp.Medians()["a"]; got != 2.5 {
		t.Fatalf("median = %v, want 2.5", got)
	}
	out, trace, err := p.TransformTrace(ref)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	a, _ := out.Column("a")
	if !reflect.DeepEqual(a.Floats, []float64{1, 2, 3}) {
		t.Fatalf("a = %v", a.Floats)
	}
	want := []StepTrace{{Step: "remove_outliers_iqr", Rows: 3, Cols: 1}, {Step: "impute_median", Rows: 3, Cols: 1}}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %+v", trace)
	}
}

func TestTransformBeforeFitFails(t *testing.T) {
	p := NewPipeline(dataprep.NewMedianImputer("a"))
	_, err := p.Transform(dataset.MustNew(dataset.NewNumeric("a", []float64{1})))
	if !errors.Is(err, dataprep.ErrNotFitted) {
		t.Fatalf("err = %v, want ErrNotFitted", err)
	}
}

func TestFromConfig(t *testing.T) {
	four := 4.0
	cfg := config.PipelineConfig{
		OutlierK: 3,
		Steps: []config.StepConfig{
			{Name: config.StepImputeMedian},
			{Name: config.StepRemoveOutliersIQR, Columns: []string{"alcohol"}, K: &four},
			{Name: config.StepFeatureEngineering},
			{Name: config.StepPHBucket},
			{Name: config.StepEncodeCategorical},
			{Name: config.StepDropDuplicates},
			{Name: config.StepStandardScale},
		},
	}
	p, err := FromConfig(cfg, []string{"alcohol", "pH"})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	steps := p.Steps()
	if len(steps) != 7 {
		t.Fatalf("steps = %d", len(steps))
	}
	imp := steps[0].(*dataprep.MedianImputer)
	if !reflect.DeepEqual(imp.Columns, []string{"alcohol", "pH"}) {
		t.Fatalf("imputer columns = %v", imp.Columns)
	}
	iqr := steps[1].(*dataprep.IQROutlierFilter)
	if iqr.K != 4 || !reflect.DeepEqual(iqr.Columns, []string{"alcohol"}) {
		t.Fatalf("filter = %+v", iqr)
	}

	_, err = FromConfig(config.PipelineConfig{Steps: []config.StepConfig{{Name: "bogus"}}}, nil)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("unknown step: err = %v", err)
	}
}
