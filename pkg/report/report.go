// Package report persists run outcomes: a JSON document per run and a chart
// of range violations per column.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wineetl/pkg/pipeline"
)

// LatestName is the file name of the most recent report in a report directory.
const LatestName = "latest.json"

// ErrNoReport is returned by ReadLatest when no run has been written yet.
var ErrNoReport = errors.New("report: no report written")

// Write stores res as run_<id>.json and latest.json in dir and returns the
// path of the per-run file.
func Write(dir string, res *pipeline.Result) (string, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "run_"+res.RunID+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	tmp := filepath.Join(dir, LatestName+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, filepath.Join(dir, LatestName)); err != nil {
		return "", err
	}
	return path, nil
}

// ReadLatest returns the raw JSON of the most recent report in dir.
func ReadLatest(dir string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(dir, LatestName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoReport
	}
	return b, err
}
