package report

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"wineetl/pkg/validation"
)

// ErrNothingToPlot is returned when no column has a violation.
var ErrNothingToPlot = errors.New("report: no violations to plot")

// PlotViolations draws a grouped bar chart of values below and above the
// computed range for each violating column. The image format follows the
// extension of path.
func PlotViolations(per map[string]validation.Violations, path string) error {
	if len(per) == 0 {
		return ErrNothingToPlot
	}
	names := make([]string, 0, len(per))
	for name := range per {
		names = append(names, name)
	}
	sort.Strings(names)

	below := make(plotter.Values, len(names))
	above := make(plotter.Values, len(names))
	for i, name := range names {
		below[i] = float64(per[name].Below)
		above[i] = float64(per[name].Above)
	}

	p := plot.New()
	p.Title.Text = "Numeric range violations"
	p.Y.Label.Text = "Rows"

	w := vg.Points(14)
	lo, err := plotter.NewBarChart(below, w)
	if err != nil {
		return err
	}
	lo.Color = color.RGBA{B: 200, A: 255, R: 50, G: 50}
	lo.Offset = -w / 2

	hi, err := plotter.NewBarChart(above, w)
	if err != nil {
		return err
	}
	hi.Color = color.RGBA{R: 220, A: 255, G: 60}
	hi.Offset = w / 2

	p.Add(lo, hi)
	p.Legend.Add("below", lo)
	p.Legend.Add("above", hi)
	p.Legend.Top = true
	p.NominalX(names...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	width := vg.Length(len(names))*3*w + 2*vg.Inch
	return p.Save(width, 4*vg.Inch, path)
}
