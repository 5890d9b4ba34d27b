package report

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// PlotSize is the width and height of saved plots.
const PlotSize = 5 * vg.Inch

// PlotPredictions saves a scatter of actual against predicted values with the
// identity line. The format follows the extension of path (.png, .svg, .pdf).
func PlotPredictions(path string, yTrue, yPred []float64, title string) error {
	if len(yTrue) == 0 {
		return errors.NewValueError("PlotPredictions", "no points to plot")
	}
	if len(yTrue) != len(yPred) {
		return errors.NewDimensionError("PlotPredictions", len(yTrue), len(yPred), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	lo, hi := math.Inf(1), math.Inf(-1)
	pts := make(plotter.XYs, len(yTrue))
	for i := range yTrue {
		pts[i].X = yTrue[i]
		pts[i].Y = yPred[i]
		lo = math.Min(lo, math.Min(yTrue[i], yPred[i]))
		hi = math.Max(hi, math.Max(yTrue[i], yPred[i]))
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), s, identity)
	p.Legend.Add("solves", s)
	p.Legend.Add("y = x", identity)

	if err := p.Save(PlotSize, PlotSize, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
