package pipeline

import (
	"fmt"

	"wineetl/pkg/dataset"
)

// Transformer is a single dataset mutation with a fitting phase. Steps with
// nothing to learn implement Fit as a no-op (see dataprep.Stateless).
type Transformer interface {
	Name() string
	Fit(ref *dataset.Frame) error
	Transform(f *dataset.Frame) (*dataset.Frame, error)
}

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Transformer
}

// StepTrace records the frame shape after one step ran.
type StepTrace struct {
	Step string `json:"step"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the configured steps in order.
func (p *Pipeline) Steps() []Transformer {
	return append([]Transformer(nil), p.steps...)
}

// Fit fits every step against the same reference frame. Outputs are not
// chained: a step's statistics never see the effect of earlier steps.
func (p *Pipeline) Fit(ref *dataset.Frame) error {
	for _, step := range p.steps {
		if err := step.Fit(ref); err != nil {
			return fmt.Errorf("fit %s: %w", step.Name(), err)
		}
	}
	return nil
}

// Transform applies every step in order, feeding each step the previous output.
func (p *Pipeline) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	out, _, err := p.TransformTrace(f)
	return out, err
}

// TransformTrace is Transform that also reports the shape after every step.
func (p *Pipeline) TransformTrace(f *dataset.Frame) (*dataset.Frame, []StepTrace, error) {
	trace := make([]StepTrace, 0, len(p.steps))
	out := f
	for _, step := range p.steps {
		var err error
		if out, err = step.Transform(out); err != nil {
			return nil, trace, fmt.Errorf("transform %s: %w", step.Name(), err)
		}
		trace = append(trace, StepTrace{Step: step.Name(), Rows: out.NumRows(), Cols: out.NumCols()})
	}
	return out, trace, nil
}

// FitTransform fits on f and then transforms f.
func (p *Pipeline) FitTransform(f *dataset.Frame) (*dataset.Frame, error) {
	if err := p.Fit(f); err != nil {
		return nil, err
	}
	return p.Transform(f)
}
