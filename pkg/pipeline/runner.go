package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wineetl/pkg/config"
	"wineetl/pkg/dataset"
	"wineetl/pkg/validation"
)

// Extractor supplies the raw dataset.
type Extractor interface {
	Extract(ctx context.Context) (*dataset.Frame, error)
}

// Loader persists the cleaned dataset.
type Loader interface {
	Load(ctx context.Context, f *dataset.Frame) error
}

// Result is the outcome of one run.
type Result struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
	InputRows  int               `json:"input_rows"`
	OutputRows int               `json:"output_rows"`
	Output     *dataset.Frame    `json:"-"`
	Schema     dataset.Schema    `json:"schema"`
	Report     validation.Report `json:"report"`
	Trace      []StepTrace       `json:"trace"`
}

// Runner applies the gate-then-transform policy:
// row count and required columns are hard gates, numeric ranges are a soft
// gate that is reported but only halts the run when configured to.
type Runner struct {
	cfg    config.Config
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run progress.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner returns a runner for cfg. The configuration is validated here so
// that a run never starts with a missing required value.
func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Execute extracts, runs and loads. The loader is only called for a
// successful run.
func (r *Runner) Execute(ctx context.Context, src Extractor, dst Loader) (*Result, error) {
	raw, err := src.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	res, err := r.Run(raw)
	if err != nil {
		return res, err
	}
	if err := dst.Load(ctx, res.Output); err != nil {
		return res, fmt.Errorf("load: %w", err)
	}
	r.logger.Info("run completed", "run_id", res.RunID, "rows", res.OutputRows, "duration", res.Duration)
	return res, nil
}

// Run validates raw and, when the hard gates pass, fits and applies a fresh
// pipeline. The returned Result is non-nil even on failure and carries the
// report of every gate evaluated so far.
func (r *Runner) Run(raw *dataset.Frame) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: time.Now(), InputRows: raw.NumRows()}
	log := r.logger.With("run_id", res.RunID)
	defer func() { res.Duration = time.Since(res.StartedAt) }()

	log.Info("starting run", "rows", raw.NumRows(), "cols", raw.NumCols())
	features, err := r.validate(raw, &res.Report, log)
	if err != nil {
		return res, err
	}

	p, err := FromConfig(r.cfg.Pipeline, features)
	if err != nil {
		return res, err
	}
	if err := p.Fit(raw); err != nil {
		return res, err
	}
	out, trace, err := p.TransformTrace(raw)
	res.Trace = trace
	for _, t := range trace {
		log.Debug("step applied", "step", t.Step, "rows", t.Rows, "cols", t.Cols)
	}
	if err != nil {
		return res, err
	}

	res.Output = out
	res.OutputRows = out.NumRows()
	res.Schema = out.Schema()
	log.Info("transform complete", "rows_in", res.InputRows, "rows_out", res.OutputRows, "cols", out.NumCols())
	return res, nil
}

// Validate evaluates the gates on raw without transforming it. The error is
// non-nil when a hard gate fails, or when the range gate fails and
// validation.halt_on_range_violation is set.
func (r *Runner) Validate(raw *dataset.Frame) (validation.Report, error) {
	var rep validation.Report
	_, err := r.validate(raw, &rep, r.logger)
	return rep, err
}

func (r *Runner) validate(raw *dataset.Frame, rep *validation.Report, log *slog.Logger) ([]string, error) {
	vc := r.cfg.Validation

	rc, err := validation.RequireRowCount(raw, vc.MinRows)
	rep.RowCount = &rc
	if err != nil {
		log.Error("row count gate failed", "rows", rc.Rows, "min_rows", rc.MinRows)
		return nil, err
	}

	req, err := validation.RequireColumns(raw, vc.RequiredColumns)
	rep.RequiredColumns = &req
	if err != nil {
		log.Error("required columns gate failed", "missing", req.Missing)
		return nil, err
	}

	features := r.featureColumns(raw)
	ranges := validation.ComputeRanges(raw, features, r.cfg.RangeK())
	rep.Ranges = ranges

	nr, err := validation.CheckNumericRanges(raw, ranges, vc.MaxAllowedViolations, vc.Strict)
	rep.NumericRanges = &nr
	switch {
	case err == nil:
		log.Info("numeric ranges ok", "violations", nr.TotalViolations)
	case vc.HaltOnRangeViolation:
		log.Error("numeric range gate failed", "violations", nr.TotalViolations)
		return nil, err
	default:
		rep.RangeError = err.Error()
		log.Warn("numeric range gate exceeded, continuing", "violations", nr.TotalViolations, "per_column", nr.PerColumn)
	}
	return features, nil
}

// featureColumns returns the numeric columns except the target column.
func (r *Runner) featureColumns(f *dataset.Frame) []string {
	var out []string
	for _, name := range f.NamesOfKind(dataset.Numeric) {
		if name != r.cfg.Pipeline.TargetColumn {
			out = append(out, name)
		}
	}
	return out
}
