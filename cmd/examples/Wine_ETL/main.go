package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"wineetl/pkg/config"
	"wineetl/pkg/data"
	"wineetl/pkg/dataset"
	"wineetl/pkg/pipeline"
	"wineetl/pkg/report"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --config     : Path to the YAML config file. Required.
// --input      : Raw CSV or parquet file. Overrides raw_path.
// --output     : Processed file (.csv or .parquet). Overrides processed_path.
// --mode       : "file" writes the processed dataset, "cli" only previews it.
// --preview    : Number of rows to preview in console
// --object-key : Object name for the processed upload when object_store is set.
//                Default = processed/<base name of the output file>
//
// Example:
//   go run ./cmd/examples/Wine_ETL --config config.example.yaml --mode file
//
// ---------------------------------------------------------------------
//

// previewFrame prints the first n rows with headers.
func previewFrame(f *dataset.Frame, n int) {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	for _, name := range f.Names() {
		fmt.Printf("%-22s", name)
	}
	fmt.Println()
	cols := f.Columns()
	for i := 0; i < n; i++ {
		for _, c := range cols {
			if c.Kind == dataset.Numeric {
				fmt.Printf("%-22.6f", c.Floats[i])
				continue
			}
			fmt.Printf("%-22s", c.Key(i))
		}
		fmt.Println()
	}
}

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	inputPath := flag.String("input", "", "Raw dataset (overrides raw_path)")
	outputPath := flag.String("output", "", "Processed dataset (overrides processed_path)")
	mode := flag.String("mode", "file", "Output mode: file or cli")
	previewRows := flag.Int("preview", 5, "Number of rows to preview in console")
	objectKey := flag.String("object-key", "", "Object name for the processed upload")
	flag.Parse()

	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *inputPath != "" {
		cfg.RawPath = *inputPath
	}
	if *outputPath != "" {
		cfg.ProcessedPath = *outputPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *mode, *previewRows, *objectKey); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

// previewSink prints the processed frame instead of saving it.
type previewSink struct {
	rows int
}

func (p previewSink) Load(_ context.Context, f *dataset.Frame) error {
	fmt.Println("\nPreview of processed data:")
	previewFrame(f, p.rows)
	return nil
}

func sinkFor(cfg config.Config, mode string, preview int, objectKey string) (pipeline.Loader, error) {
	if mode == "cli" {
		return previewSink{rows: preview}, nil
	}
	sinks := data.MultiSink{data.FileSink{Path: cfg.ProcessedPath}}
	if cfg.ObjectStore != nil {
		if objectKey == "" {
			objectKey = path.Join("processed", filepath.Base(cfg.ProcessedPath))
		}
		obj, err := data.NewObjectSink(*cfg.ObjectStore, objectKey)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, obj)
	}
	return sinks, nil
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, mode string, preview int, objectKey string) error {
	runner, err := pipeline.NewRunner(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	sink, err := sinkFor(cfg, mode, preview, objectKey)
	if err != nil {
		return err
	}

	res, runErr := runner.Execute(ctx, data.FileSource{Path: cfg.RawPath}, sink)
	if res != nil {
		writeReport(cfg.ReportDir, res, logger)
	}
	if runErr != nil {
		return runErr
	}
	if mode != "cli" {
		logger.Info("processed data saved", "path", cfg.ProcessedPath, "rows", res.OutputRows, "cols", res.Output.NumCols())
	}
	return nil
}

// writeReport stores the run report and the violation chart. Failures are
// logged and do not fail the run.
func writeReport(dir string, res *pipeline.Result, logger *slog.Logger) {
	if p, err := report.Write(dir, res); err != nil {
		logger.Error("write report", "err", err)
	} else {
		logger.Info("report written", "path", p)
	}
	nr := res.Report.NumericRanges
	if nr == nil {
		return
	}
	chart := filepath.Join(dir, "violations_"+res.RunID+".png")
	switch err := report.PlotViolations(nr.PerColumn, chart); {
	case errors.Is(err, report.ErrNothingToPlot):
	case err != nil:
		logger.Warn("plot violations", "err", err)
	default:
		logger.Info("chart written", "path", chart)
	}
}
