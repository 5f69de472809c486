package pipeline

import (
	"fmt"

	"wineetl/pkg/config"
	"wineetl/pkg/dataprep"
)

// FromConfig builds a pipeline from the ordered step list. Steps without an
// explicit column list operate on featureCols; steps without k use
// pipeline.outlier_k. Every call returns fresh step instances.
func FromConfig(cfg config.PipelineConfig, featureCols []string) (*Pipeline, error) {
	steps := make([]Transformer, 0, len(cfg.Steps))
	for i, sc := range cfg.Steps {
		cols := sc.Columns
		if len(cols) == 0 {
			cols = featureCols
		}
		cols = append([]string(nil), cols...)
		k := cfg.OutlierK
		if sc.K != nil {
			k = *sc.K
		}

		var step Transformer
		switch sc.Name {
		case config.StepImputeMedian:
			step = dataprep.NewMedianImputer(cols...)
		case config.StepRemoveOutliersIQR:
			step = dataprep.NewIQROutlierFilter(k, cols...)
		case config.StepFeatureEngineering:
			step = dataprep.NewFeatureDeriver()
		case config.StepEncodeCategorical:
			step = dataprep.NewCategoricalEncoder()
		case config.StepPHBucket:
			step = dataprep.NewPHBucketizer()
		case config.StepDropDuplicates:
			step = dataprep.NewDuplicateDropper()
		case config.StepStandardScale:
			step = dataprep.NewStandardScaler(cols...)
		default:
			return nil, &config.Error{
				Key: fmt.Sprintf("pipeline.steps[%d].name", i),
				Err: fmt.Errorf("%w: unknown step %q", config.ErrInvalid, sc.Name),
			}
		}
		steps = append(steps, step)
	}
	return NewPipeline(steps...), nil
}
